// Copyright 2026 Moonwalk ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff exposes reverse-mode automatic differentiation.
//
// Wrap any backend to get gradient tracking:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	y := x.Mul(x)
//	grads := autodiff.Backward(y, backend)
package autodiff

import (
	"github.com/moonwalk-ml/moonwalk/internal/autodiff"
	"github.com/moonwalk-ml/moonwalk/tensor"
)

// Backend decorates an inner backend with a gradient tape.
type Backend[B tensor.Backend] = autodiff.Backend[B]

// GradientTape records forward-pass operations and replays them in reverse.
type GradientTape = autodiff.GradientTape

// BackwardCapable is satisfied by backends carrying a gradient tape.
type BackwardCapable = autodiff.BackwardCapable

// New wraps a backend with autodiff.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// NewGradientTape creates a standalone gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// Backward computes gradients of t with respect to every tensor on the
// tape, seeding the output gradient with ones.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
