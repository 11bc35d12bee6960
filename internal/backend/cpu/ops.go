package cpu

import (
	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

type number interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// elemOp bundles the per-dtype element functions of one binary operation.
// Dispatch happens once per tensor, not per element.
type elemOp struct {
	name string
	f32  func(x, y float32) float32
	f64  func(x, y float64) float64
	i32  func(x, y int32) int32
	i64  func(x, y int64) int64
}

var (
	addOp = elemOp{"add", addOf[float32], addOf[float64], addOf[int32], addOf[int64]}
	subOp = elemOp{"sub", subOf[float32], subOf[float64], subOf[int32], subOf[int64]}
	mulOp = elemOp{"mul", mulOf[float32], mulOf[float64], mulOf[int32], mulOf[int64]}
	divOp = elemOp{"div", divOf[float32], divOf[float64], divOf[int32], divOf[int64]}
)

func addOf[T number](x, y T) T { return x + y }
func subOf[T number](x, y T) T { return x - y }
func mulOf[T number](x, y T) T { return x * y }
func divOf[T number](x, y T) T { return x / y }

// elementwiseInplace computes a = op(a, b).
// Requires: a.Shape().Equal(b.Shape()) && a.IsUnique().
func elementwiseInplace(a, b *tensor.RawTensor, op elemOp) {
	switch a.DType() {
	case tensor.Float32:
		mapPair(a.AsFloat32(), a.AsFloat32(), b.AsFloat32(), op.f32)
	case tensor.Float64:
		mapPair(a.AsFloat64(), a.AsFloat64(), b.AsFloat64(), op.f64)
	case tensor.Int32:
		mapPair(a.AsInt32(), a.AsInt32(), b.AsInt32(), op.i32)
	case tensor.Int64:
		mapPair(a.AsInt64(), a.AsInt64(), b.AsInt64(), op.i64)
	default:
		panic(op.name + ": unsupported dtype")
	}
}

// elementwise computes result = op(a, b) for same-shape operands.
func elementwise(result, a, b *tensor.RawTensor, op elemOp) {
	switch a.DType() {
	case tensor.Float32:
		mapPair(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), op.f32)
	case tensor.Float64:
		mapPair(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), op.f64)
	case tensor.Int32:
		mapPair(result.AsInt32(), a.AsInt32(), b.AsInt32(), op.i32)
	case tensor.Int64:
		mapPair(result.AsInt64(), a.AsInt64(), b.AsInt64(), op.i64)
	default:
		panic(op.name + ": unsupported dtype")
	}
}

// elementwiseBroadcast computes result = op(a, b) with broadcasting.
func elementwiseBroadcast(result, a, b *tensor.RawTensor, outShape tensor.Shape, op elemOp) {
	switch a.DType() {
	case tensor.Float32:
		mapBroadcast(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, op.f32)
	case tensor.Float64:
		mapBroadcast(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, op.f64)
	case tensor.Int32:
		mapBroadcast(result.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape, op.i32)
	case tensor.Int64:
		mapBroadcast(result.AsInt64(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape, op.i64)
	default:
		panic(op.name + ": unsupported dtype")
	}
}

func mapPair[T number](dst, a, b []T, f func(T, T) T) {
	for i := range dst {
		dst[i] = f(a[i], b[i])
	}
}

// mapBroadcast walks the output in row-major order, mapping each output index
// back into a and b with zero strides on broadcast dimensions.
func mapBroadcast[T number](dst, a, b []T, aShape, bShape, outShape tensor.Shape, f func(T, T) T) {
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)

	idx := make([]int, len(outShape))
	for i := range dst {
		ai, bi := 0, 0
		for d := range idx {
			ai += idx[d] * aStrides[d]
			bi += idx[d] * bStrides[d]
		}
		dst[i] = f(a[ai], b[bi])

		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < outShape[d] {
				break
			}
			idx[d] = 0
		}
	}
}

// broadcastStrides returns the strides of shape aligned to outShape, with
// zero strides for dimensions of size 1 (or missing leading dimensions).
func broadcastStrides(shape, outShape tensor.Shape) []int {
	strides := make([]int, len(outShape))
	shapeStrides := shape.ComputeStrides()
	offset := len(outShape) - len(shape)
	for d := range outShape {
		if d < offset || shape[d-offset] == 1 {
			strides[d] = 0
		} else {
			strides[d] = shapeStrides[d-offset]
		}
	}
	return strides
}
