package ops

import (
	"fmt"

	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// SoftmaxOp records output = softmax(x) along the last dimension of a 2D
// tensor.
//
// The full Jacobian is ∂softmax_i/∂x_j = softmax_i·(δ_ij - softmax_j), but
// the chain rule collapses it to one dot product per row:
//
//	grad_x[b,j] = softmax[b,j] · (g[b,j] - Σ_i g[b,i]·softmax[b,i])
type SoftmaxOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSoftmaxOp creates a new SoftmaxOp.
func NewSoftmaxOp(input, output *tensor.RawTensor) *SoftmaxOp {
	return &SoftmaxOp{input: input, output: output}
}

// Backward computes the row-wise softmax gradient from the cached output.
func (op *SoftmaxOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	shape := op.input.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("SoftmaxOp: backward expects 2D input, got %v", shape))
	}

	grad := gradLike(op.input)

	switch op.input.DType() {
	case tensor.Float32:
		softmaxGradRows(grad.AsFloat32(), outputGrad.AsFloat32(), op.output.AsFloat32(), shape[0], shape[1])
	case tensor.Float64:
		softmaxGradRows(grad.AsFloat64(), outputGrad.AsFloat64(), op.output.AsFloat64(), shape[0], shape[1])
	default:
		panic("SoftmaxOp: backward requires a float tensor")
	}

	return []*tensor.RawTensor{grad}
}

func softmaxGradRows[T ~float32 | ~float64](dst, outGrad, softmax []T, rows, cols int) {
	for b := 0; b < rows; b++ {
		row := b * cols

		var dot T
		for j := 0; j < cols; j++ {
			dot += outGrad[row+j] * softmax[row+j]
		}
		for j := 0; j < cols; j++ {
			dst[row+j] = softmax[row+j] * (outGrad[row+j] - dot)
		}
	}
}

// Inputs returns the input tensor.
func (op *SoftmaxOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns softmax(x).
func (op *SoftmaxOp) Output() *tensor.RawTensor { return op.output }
