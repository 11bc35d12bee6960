package ops

import "github.com/moonwalk-ml/moonwalk/internal/tensor"

// TanhOp records output = tanh(x).
//
// d(tanh(x))/dx = 1 - tanh²(x), and tanh(x) is the cached output, so the
// backward pass never has to recompute the activation.
type TanhOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewTanhOp creates a new TanhOp.
func NewTanhOp(input, output *tensor.RawTensor) *TanhOp {
	return &TanhOp{input: input, output: output}
}

// Backward computes grad = g ∘ (1 - tanh²(x)).
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := gradLike(op.input)
	mapGradFloat(grad, outputGrad, op.output, func(g, out float64) float64 {
		return g * (1 - out*out)
	})
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *TanhOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns tanh(x).
func (op *TanhOp) Output() *tensor.RawTensor { return op.output }
