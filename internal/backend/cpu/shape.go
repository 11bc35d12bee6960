package cpu

import (
	"fmt"

	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// Reshape returns a tensor with the same data and a new shape.
// The element count must be preserved.
func (cpu *CPUBackend) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if newShape.NumElements() != x.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v (%d elements) to %v (%d elements)",
			x.Shape(), x.NumElements(), newShape, newShape.NumElements()))
	}

	result := mustNewRaw(newShape, x.DType(), cpu.device, "reshape")
	copy(result.Data(), x.Data()[:x.ByteSize()])
	return result
}

// Transpose permutes the tensor's dimensions. With no axes given, all
// dimensions are reversed.
func (cpu *CPUBackend) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := x.Shape()
	rank := len(shape)

	if len(axes) == 0 {
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	if len(axes) != rank {
		panic(fmt.Sprintf("transpose: expected %d axes, got %d", rank, len(axes)))
	}

	seen := make([]bool, rank)
	outShape := make(tensor.Shape, rank)
	for i, ax := range axes {
		if ax < 0 || ax >= rank || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid axes %v for shape %v", axes, shape))
		}
		seen[ax] = true
		outShape[i] = shape[ax]
	}

	result := mustNewRaw(outShape, x.DType(), cpu.device, "transpose")

	switch x.DType() {
	case tensor.Float32:
		permute(result.AsFloat32(), x.AsFloat32(), shape, outShape, axes)
	case tensor.Float64:
		permute(result.AsFloat64(), x.AsFloat64(), shape, outShape, axes)
	case tensor.Int32:
		permute(result.AsInt32(), x.AsInt32(), shape, outShape, axes)
	case tensor.Int64:
		permute(result.AsInt64(), x.AsInt64(), shape, outShape, axes)
	default:
		panic("transpose: unsupported dtype")
	}

	return result
}

// permute copies src into dst in the permuted layout via a strided walk.
func permute[T number](dst, src []T, srcShape, outShape tensor.Shape, axes []int) {
	srcStrides := srcShape.ComputeStrides()

	idx := make([]int, len(outShape))
	for i := range dst {
		srcIdx := 0
		for d, ax := range axes {
			srcIdx += idx[d] * srcStrides[ax]
		}
		dst[i] = src[srcIdx]

		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < outShape[d] {
				break
			}
			idx[d] = 0
		}
	}
}
