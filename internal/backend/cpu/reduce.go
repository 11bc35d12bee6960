package cpu

import (
	"fmt"

	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// Sum reduces all elements to a [1] tensor.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := mustNewRaw(tensor.Shape{1}, x.DType(), cpu.device, "sum")

	switch x.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = sumSpan(x.AsFloat32())
	case tensor.Float64:
		result.AsFloat64()[0] = sumSpan(x.AsFloat64())
	case tensor.Int32:
		result.AsInt32()[0] = sumSpan(x.AsInt32())
	case tensor.Int64:
		result.AsInt64()[0] = sumSpan(x.AsInt64())
	default:
		panic("sum: unsupported dtype")
	}

	return result
}

// SumDim sums along one dimension. With keepDim the reduced dimension stays
// with size 1, otherwise it is removed.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	outer, size, inner := splitDims(x.Shape(), dim, "sum_dim")
	result := mustNewRaw(reducedShape(x.Shape(), dim, keepDim), x.DType(), cpu.device, "sum_dim")

	switch x.DType() {
	case tensor.Float32:
		reduceDim(result.AsFloat32(), x.AsFloat32(), outer, size, inner, false)
	case tensor.Float64:
		reduceDim(result.AsFloat64(), x.AsFloat64(), outer, size, inner, false)
	case tensor.Int32:
		reduceDim(result.AsInt32(), x.AsInt32(), outer, size, inner, false)
	case tensor.Int64:
		reduceDim(result.AsInt64(), x.AsInt64(), outer, size, inner, false)
	default:
		panic("sum_dim: unsupported dtype")
	}

	return result
}

// MeanDim averages along one dimension.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	outer, size, inner := splitDims(x.Shape(), dim, "mean_dim")
	result := mustNewRaw(reducedShape(x.Shape(), dim, keepDim), x.DType(), cpu.device, "mean_dim")

	switch x.DType() {
	case tensor.Float32:
		reduceDim(result.AsFloat32(), x.AsFloat32(), outer, size, inner, true)
	case tensor.Float64:
		reduceDim(result.AsFloat64(), x.AsFloat64(), outer, size, inner, true)
	default:
		panic("mean_dim: requires a float tensor, got " + x.DType().String())
	}

	return result
}

// Argmax returns int32 indices of the maximum along dim. The reduced
// dimension is removed from the output shape.
func (cpu *CPUBackend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	outer, size, inner := splitDims(x.Shape(), dim, "argmax")
	result := mustNewRaw(reducedShape(x.Shape(), dim, false), tensor.Int32, cpu.device, "argmax")

	switch x.DType() {
	case tensor.Float32:
		argmaxDim(result.AsInt32(), x.AsFloat32(), outer, size, inner)
	case tensor.Float64:
		argmaxDim(result.AsInt32(), x.AsFloat64(), outer, size, inner)
	case tensor.Int32:
		argmaxDim(result.AsInt32(), x.AsInt32(), outer, size, inner)
	case tensor.Int64:
		argmaxDim(result.AsInt32(), x.AsInt64(), outer, size, inner)
	default:
		panic("argmax: unsupported dtype")
	}

	return result
}

// splitDims factors a shape into (outer, size, inner) around dim, so any
// rank reduces with three nested loops.
func splitDims(shape tensor.Shape, dim int, opName string) (outer, size, inner int) {
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("%s: dimension %d out of range for shape %v", opName, dim, shape))
	}
	outer, size, inner = 1, shape[dim], 1
	for _, d := range shape[:dim] {
		outer *= d
	}
	for _, d := range shape[dim+1:] {
		inner *= d
	}
	return outer, size, inner
}

func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	out := make(tensor.Shape, 0, len(shape))
	for d, s := range shape {
		switch {
		case d != dim:
			out = append(out, s)
		case keepDim:
			out = append(out, 1)
		}
	}
	if len(out) == 0 {
		out = tensor.Shape{1}
	}
	return out
}

func sumSpan[T number](src []T) T {
	var total T
	for _, v := range src {
		total += v
	}
	return total
}

func reduceDim[T number](dst, src []T, outer, size, inner int, mean bool) {
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			var total T
			base := o*size*inner + in
			for s := 0; s < size; s++ {
				total += src[base+s*inner]
			}
			if mean {
				total /= T(size)
			}
			dst[o*inner+in] = total
		}
	}
}

func argmaxDim[T number](dst []int32, src []T, outer, size, inner int) {
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*size*inner + in
			best, bestIdx := src[base], int32(0)
			for s := 1; s < size; s++ {
				if v := src[base+s*inner]; v > best {
					best, bestIdx = v, int32(s)
				}
			}
			dst[o*inner+in] = bestIdx
		}
	}
}
