package ops

import "github.com/moonwalk-ml/moonwalk/internal/tensor"

// MulOp records output = a ∘ b (element-wise).
//
// d(a∘b)/da = b and d(a∘b)/db = a, so each input's gradient is the output
// gradient times the other input.
type MulOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// NewMulOp creates a new MulOp.
func NewMulOp(a, b, output *tensor.RawTensor) *MulOp {
	return &MulOp{inputs: []*tensor.RawTensor{a, b}, output: output}
}

// Backward computes grad_a = g ∘ b and grad_b = g ∘ a.
func (op *MulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]

	gradA := backend.Mul(outputGrad, b)
	gradB := backend.Mul(outputGrad, a)

	return []*tensor.RawTensor{
		reduceBroadcast(gradA, a.Shape(), backend),
		reduceBroadcast(gradB, b.Shape(), backend),
	}
}

// Inputs returns [a, b].
func (op *MulOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns a ∘ b.
func (op *MulOp) Output() *tensor.RawTensor { return op.output }
