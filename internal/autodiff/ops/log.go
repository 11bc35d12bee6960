package ops

import "github.com/moonwalk-ml/moonwalk/internal/tensor"

// LogOp records output = log(x).
// d(log(x))/dx = 1/x, so grad = g / x. Inputs must be positive.
type LogOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewLogOp creates a new LogOp.
func NewLogOp(input, output *tensor.RawTensor) *LogOp {
	return &LogOp{input: input, output: output}
}

// Backward computes grad = g / x.
func (op *LogOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Div(outputGrad, op.input)}
}

// Inputs returns the input tensor.
func (op *LogOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns log(x).
func (op *LogOp) Output() *tensor.RawTensor { return op.output }
