package ops

import "github.com/moonwalk-ml/moonwalk/internal/tensor"

// DivOp records output = a / b (element-wise).
//
// d(a/b)/da = 1/b and d(a/b)/db = -a/b², so:
//
//	grad_a = g / b
//	grad_b = -g ∘ a / b² = -g ∘ output / b
type DivOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// NewDivOp creates a new DivOp.
func NewDivOp(a, b, output *tensor.RawTensor) *DivOp {
	return &DivOp{inputs: []*tensor.RawTensor{a, b}, output: output}
}

// Backward computes gradients for both operands of the division.
func (op *DivOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]

	gradA := backend.Div(outputGrad, b)

	// grad_b = -(g ∘ output) / b, reusing output = a/b.
	gradB := backend.Mul(outputGrad, op.output)
	gradB = backend.Div(gradB, b)
	gradB = backend.MulScalar(gradB, -1.0)

	return []*tensor.RawTensor{
		reduceBroadcast(gradA, a.Shape(), backend),
		reduceBroadcast(gradB, b.Shape(), backend),
	}
}

// Inputs returns [a, b].
func (op *DivOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns a / b.
func (op *DivOp) Output() *tensor.RawTensor { return op.output }
