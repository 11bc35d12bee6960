package ops

import "github.com/moonwalk-ml/moonwalk/internal/tensor"

// SigmoidOp records output = σ(x) = 1 / (1 + exp(-x)).
// dσ/dx = σ(x)·(1 - σ(x)), expressed through the cached output.
type SigmoidOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSigmoidOp creates a new SigmoidOp.
func NewSigmoidOp(input, output *tensor.RawTensor) *SigmoidOp {
	return &SigmoidOp{input: input, output: output}
}

// Backward computes grad = g ∘ σ(x) ∘ (1 - σ(x)).
func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := gradLike(op.input)
	mapGradFloat(grad, outputGrad, op.output, func(g, out float64) float64 {
		return g * out * (1 - out)
	})
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *SigmoidOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns σ(x).
func (op *SigmoidOp) Output() *tensor.RawTensor { return op.output }
