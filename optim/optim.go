// Copyright 2026 Moonwalk ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim exposes gradient descent optimizers.
//
//	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.01})
//	grads := autodiff.Backward(loss, backend)
//	opt.Step(grads)
package optim

import (
	"github.com/moonwalk-ml/moonwalk/internal/optim"
	"github.com/moonwalk-ml/moonwalk/nn"
	"github.com/moonwalk-ml/moonwalk/tensor"
)

// Optimizer updates parameters from a gradient map.
type Optimizer = optim.Optimizer

// SGD is stochastic gradient descent with optional momentum.
type SGD[B tensor.Backend] = optim.SGD[B]

// SGDConfig configures SGD. A zero LR defaults to 0.01.
type SGDConfig = optim.SGDConfig

// Adam is the Adam optimizer with bias-corrected moment estimates.
type Adam[B tensor.Backend] = optim.Adam[B]

// AdamConfig configures Adam. Zero fields take the usual defaults
// (lr 0.001, betas 0.9/0.999, eps 1e-8).
type AdamConfig = optim.AdamConfig

// NewSGD creates an SGD optimizer over the given parameters.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig) *SGD[B] {
	return optim.NewSGD(params, config)
}

// NewAdam creates an Adam optimizer over the given parameters.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], config AdamConfig) *Adam[B] {
	return optim.NewAdam(params, config)
}
