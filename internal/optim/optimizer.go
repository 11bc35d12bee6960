// Package optim implements the gradient-descent optimizers used to train
// models: plain SGD (with optional momentum) and Adam.
//
// Optimizers consume the gradient map produced by autodiff.Backward and
// update parameters IN PLACE. The map is keyed by raw tensor pointer, so
// replacing a parameter's tensor with a fresh one would orphan it from
// every future backward pass.
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.01})
//	for epoch := 0; epoch < epochs; epoch++ {
//	    backend.Tape().Clear()
//	    loss := forward(...)
//	    grads := autodiff.Backward(loss, backend)
//	    optimizer.Step(grads)
//	    optimizer.ZeroGrad()
//	}
package optim

import (
	"github.com/moonwalk-ml/moonwalk/internal/nn"
	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// Optimizer updates parameters from a gradient map.
type Optimizer interface {
	// Step applies one update to every parameter that received a
	// gradient. Parameters absent from the map are skipped.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad detaches gradients from all parameters.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// gradientFor looks up the gradient recorded for a parameter's raw tensor.
func gradientFor[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor().Raw()]
}
