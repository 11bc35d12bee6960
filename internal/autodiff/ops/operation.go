// Package ops defines the differentiable operations recorded on the gradient
// tape. Each operation stores the raw tensors of its forward pass and knows
// how to turn an output gradient into input gradients.
package ops

import "github.com/moonwalk-ml/moonwalk/internal/tensor"

// Operation is one node of the recorded computation graph.
type Operation interface {
	// Backward computes gradients for the inputs given the output gradient.
	// The returned slice is parallel to Inputs(); a nil entry means no
	// gradient flows to that input (e.g. integer class targets).
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors of this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the tensor produced by this operation.
	Output() *tensor.RawTensor
}
