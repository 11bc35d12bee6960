// Copyright 2026 Moonwalk ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu exposes the CPU compute backend.
package cpu

import (
	internalcpu "github.com/moonwalk-ml/moonwalk/internal/backend/cpu"
	"github.com/moonwalk-ml/moonwalk/tensor"
)

// Backend is the CPU backend: pure Go kernels with an inplace fast path for
// uniquely owned buffers.
type Backend = internalcpu.CPUBackend

var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 2}, backend)
func New() *Backend {
	return internalcpu.New()
}
