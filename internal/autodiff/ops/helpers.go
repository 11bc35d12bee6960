package ops

import (
	"fmt"

	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// reduceBroadcast shrinks a gradient back to the shape of a forward-pass
// input that was broadcast. Broadcast dimensions receive the sum of the
// gradients that flowed through them.
//
// Example:
//
//	forward:  bias[1,4] + x[200,4] -> y[200,4]
//	backward: grad_y[200,4] -> grad_bias[1,4]  (sum over dim 0)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()

	// Clone on the matching-shape path so later inplace operations cannot
	// corrupt a gradient that is shared between ops.
	if gradShape.Equal(targetShape) {
		return grad.Clone()
	}

	// Broadcasting aligns from the right: sum away extra leading
	// dimensions first.
	result := grad
	for len(result.Shape()) > len(targetShape) {
		result = backend.SumDim(result, 0, false)
	}

	// Then sum dimensions the input held with size 1.
	for d, size := range targetShape {
		if size == 1 && result.Shape()[d] > 1 {
			result = backend.SumDim(result, d, true)
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}
	return result
}

// onesLike allocates a tensor of the given shape and dtype filled with ones.
func onesLike(t *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(t.Shape(), t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("onesLike: %v", err))
	}
	switch t.DType() {
	case tensor.Float32:
		data := result.AsFloat32()
		for i := range data {
			data[i] = 1
		}
	case tensor.Float64:
		data := result.AsFloat64()
		for i := range data {
			data[i] = 1
		}
	default:
		panic("onesLike: requires a float tensor")
	}
	return result
}

// gradLike allocates a zero gradient with the same shape and dtype as t.
func gradLike(t *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(t.Shape(), t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("gradLike: %v", err))
	}
	return result
}

// mapGradFloat fills dst[i] = f(outGrad[i], ref[i]) for float tensors.
// Used by unary activations whose local derivative depends on one cached
// tensor (the input or the output).
func mapGradFloat(dst, outGrad, ref *tensor.RawTensor, f func(g, r float64) float64) {
	switch dst.DType() {
	case tensor.Float32:
		d, g, r := dst.AsFloat32(), outGrad.AsFloat32(), ref.AsFloat32()
		for i := range d {
			d[i] = float32(f(float64(g[i]), float64(r[i])))
		}
	case tensor.Float64:
		d, g, r := dst.AsFloat64(), outGrad.AsFloat64(), ref.AsFloat64()
		for i := range d {
			d[i] = f(g[i], r[i])
		}
	default:
		panic("mapGradFloat: requires float tensors")
	}
}
