// Package cpu implements tensor operations on the CPU.
//
// Element-wise operations use an inplace fast path when the left operand's
// buffer is unique, a tight same-shape loop otherwise, and a strided loop
// when broadcasting is required.
package cpu

import (
	"fmt"

	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// CPUBackend implements tensor.Backend on the host CPU.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(a, b, addOp)
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(a, b, subOp)
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(a, b, mulOp)
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(a, b, divOp)
}

// binary resolves broadcasting, picks the fastest execution path and runs op.
func (cpu *CPUBackend) binary(a, b *tensor.RawTensor, op elemOp) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", op.name, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op.name, err))
	}

	if !needsBroadcast {
		// Fast path: same shape. Mutate a in place when nothing else
		// holds its buffer.
		if a.IsUnique() {
			elementwiseInplace(a, b, op)
			return a
		}
		result := mustNewRaw(outShape, a.DType(), cpu.device, op.name)
		elementwise(result, a, b, op)
		return result
	}

	result := mustNewRaw(outShape, a.DType(), cpu.device, op.name)
	elementwiseBroadcast(result, a, b, outShape, op)
	return result
}

func mustNewRaw(shape tensor.Shape, dtype tensor.DataType, device tensor.Device, opName string) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", opName, err))
	}
	return result
}
