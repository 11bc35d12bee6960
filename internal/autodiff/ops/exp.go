package ops

import "github.com/moonwalk-ml/moonwalk/internal/tensor"

// ExpOp records output = exp(x).
// Since d(exp(x))/dx = exp(x), the cached output doubles as the local
// derivative.
type ExpOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewExpOp creates a new ExpOp.
func NewExpOp(input, output *tensor.RawTensor) *ExpOp {
	return &ExpOp{input: input, output: output}
}

// Backward computes grad = g ∘ exp(x).
func (op *ExpOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(outputGrad, op.output)}
}

// Inputs returns the input tensor.
func (op *ExpOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns exp(x).
func (op *ExpOp) Output() *tensor.RawTensor { return op.output }
