// Copyright 2026 Moonwalk ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn exposes neural network building blocks: layers, activations,
// losses, and parameter initialization.
//
//	model := nn.NewSequential[*B](
//		nn.NewLinear[*B](2, 3, rng, backend),
//		nn.NewTanh[*B](),
//		nn.NewLinear[*B](3, 2, rng, backend),
//	)
package nn

import (
	"math/rand"

	"github.com/moonwalk-ml/moonwalk/internal/nn"
	"github.com/moonwalk-ml/moonwalk/tensor"
)

// Module is anything with a forward pass and trainable parameters.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a named trainable tensor with an optional gradient.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// Linear is a fully connected layer computing x·Wᵀ + b.
type Linear[B tensor.Backend] = nn.Linear[B]

// Tanh applies the hyperbolic tangent elementwise.
type Tanh[B tensor.Backend] = nn.Tanh[B]

// ReLU applies max(0, x) elementwise.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// Sigmoid applies 1/(1+e^-x) elementwise.
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// Sequential chains modules, feeding each output to the next module.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// CrossEntropyLoss is softmax cross-entropy against integer class targets.
type CrossEntropyLoss[B tensor.Backend] = nn.CrossEntropyLoss[B]

// NewParameter wraps a tensor as a named parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// NewLinear creates a fully connected layer with Xavier-initialized weights
// and zero bias.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, rng *rand.Rand, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, rng, backend)
}

// NewTanh creates a Tanh activation module.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return nn.NewTanh[B]()
}

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// NewSigmoid creates a Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return nn.NewSigmoid[B]()
}

// NewSequential chains modules in order.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// NewCrossEntropyLoss creates a softmax cross-entropy loss.
func NewCrossEntropyLoss[B tensor.Backend]() *CrossEntropyLoss[B] {
	return nn.NewCrossEntropyLoss[B]()
}

// L2Penalty computes (lambda/2)·Σ‖w‖² over the given parameters as a scalar
// tensor, so the penalty's gradient flows to each parameter.
func L2Penalty[B tensor.Backend](lambda float64, params ...*Parameter[B]) *tensor.Tensor[float32, B] {
	return nn.L2Penalty(lambda, params...)
}

// Accuracy returns the fraction of rows whose argmax matches the target.
func Accuracy[B tensor.Backend](logits *tensor.Tensor[float32, B], targets *tensor.Tensor[int32, B]) float64 {
	return nn.Accuracy(logits, targets)
}

// Xavier creates a tensor with Glorot-uniform values in ±√(6/(fanIn+fanOut)).
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, rng, backend)
}
