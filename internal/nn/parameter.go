package nn

import (
	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// Parameter is a tensor the optimizer updates: a weight matrix or a bias.
//
// The gradient is attached after the backward pass by looking up the
// parameter's raw tensor in the tape's gradient map. That lookup is by
// pointer, so updates must happen in place (see optim.SGD).
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
	grad   *tensor.Tensor[float32, B]
}

// NewParameter wraps an initialized tensor as a trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{name: name, tensor: t}
}

// Name returns the parameter name (e.g. "weight", "bias").
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Grad returns the gradient, or nil before the first backward pass.
func (p *Parameter[B]) Grad() *tensor.Tensor[float32, B] {
	return p.grad
}

// SetGrad attaches a gradient computed by the backward pass.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[float32, B]) {
	p.grad = grad
}

// ZeroGrad detaches the gradient. Call between training iterations so stale
// gradients cannot leak into the next update.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}
