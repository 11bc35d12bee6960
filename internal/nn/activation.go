package nn

import (
	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// ReLUBackend is the capability interface for backends with a fused ReLU.
type ReLUBackend interface {
	ReLU(*tensor.RawTensor) *tensor.RawTensor
}

// SigmoidBackend is the capability interface for backends with a fused
// Sigmoid.
type SigmoidBackend interface {
	Sigmoid(*tensor.RawTensor) *tensor.RawTensor
}

// Tanh applies the hyperbolic tangent element-wise, squashing values into
// (-1, 1). Zero-centered output makes it the classic choice for small
// dense hidden layers.
type Tanh[B tensor.Backend] struct{}

// NewTanh creates a Tanh activation module.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return &Tanh[B]{}
}

// Forward applies tanh through the backend, so it lands on the tape when
// training.
func (t *Tanh[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.Tanh()
}

// Parameters returns nil; tanh has nothing to train.
func (t *Tanh[B]) Parameters() []*Parameter[B] {
	return nil
}

// ReLU applies f(x) = max(0, x) element-wise.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies ReLU. The backend must implement the ReLU capability
// (both the CPU backend and the autodiff decorator do).
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	capable, ok := any(backend).(ReLUBackend)
	if !ok {
		panic("ReLU: backend " + backend.Name() + " does not implement ReLU")
	}
	return tensor.New[float32](capable.ReLU(input.Raw()), backend)
}

// Parameters returns nil.
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// Sigmoid applies σ(x) = 1 / (1 + exp(-x)) element-wise.
type Sigmoid[B tensor.Backend] struct{}

// NewSigmoid creates a Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return &Sigmoid[B]{}
}

// Forward applies the logistic function via the backend capability.
func (s *Sigmoid[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	capable, ok := any(backend).(SigmoidBackend)
	if !ok {
		panic("Sigmoid: backend " + backend.Name() + " does not implement Sigmoid")
	}
	return tensor.New[float32](capable.Sigmoid(input.Raw()), backend)
}

// Parameters returns nil.
func (s *Sigmoid[B]) Parameters() []*Parameter[B] {
	return nil
}
