// Package nn provides the building blocks for feed-forward networks:
// the Module interface, trainable Parameters, the Linear layer, activation
// modules, the Sequential container and the cross-entropy loss.
//
// The design follows PyTorch's nn.Module, adapted to Go generics: modules
// are generic over the backend, so the same model definition runs on a
// plain CPU backend for inference and on the autodiff decorator for
// training.
package nn

import (
	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// Module is the interface every network component implements.
//
// Modules compose into larger networks:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(2, 3, rng, backend),
//	    nn.NewTanh[B](),
//	    nn.NewLinear(3, 2, rng, backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the module's output for the given input.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns the module's trainable parameters, including
	// those of nested modules. Parameter-free modules return nil.
	Parameters() []*Parameter[B]
}
