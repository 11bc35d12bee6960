package ops

import "github.com/moonwalk-ml/moonwalk/internal/tensor"

// SumOp records output = Σx as a [1] tensor.
//
// Every element contributed with weight 1, so the backward pass broadcasts
// the scalar output gradient over the input shape. This is the op behind
// regularization terms like Σ(W∘W).
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a new SumOp.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: input, output: output}
}

// Backward fills the input gradient with the scalar output gradient.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := gradLike(op.input)

	switch op.input.DType() {
	case tensor.Float32:
		g := outputGrad.AsFloat32()[0]
		data := grad.AsFloat32()
		for i := range data {
			data[i] = g
		}
	case tensor.Float64:
		g := outputGrad.AsFloat64()[0]
		data := grad.AsFloat64()
		for i := range data {
			data[i] = g
		}
	default:
		panic("SumOp: backward requires a float tensor")
	}

	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *SumOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the [1] sum.
func (op *SumOp) Output() *tensor.RawTensor { return op.output }
