package cpu

import (
	"math"

	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// Exp computes the element-wise exponential.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, "exp", math.Exp)
}

// Log computes the element-wise natural logarithm.
func (cpu *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, "log", math.Log)
}

// Tanh computes the element-wise hyperbolic tangent.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, "tanh", math.Tanh)
}

// unary applies f element-wise. Float tensors only.
func (cpu *CPUBackend) unary(x *tensor.RawTensor, opName string, f func(float64) float64) *tensor.RawTensor {
	result := mustNewRaw(x.Shape(), x.DType(), cpu.device, opName)

	switch x.DType() {
	case tensor.Float32:
		dst, src := result.AsFloat32(), x.AsFloat32()
		for i := range dst {
			dst[i] = float32(f(float64(src[i])))
		}
	case tensor.Float64:
		dst, src := result.AsFloat64(), x.AsFloat64()
		for i := range dst {
			dst[i] = f(src[i])
		}
	default:
		panic(opName + ": requires a float tensor, got " + x.DType().String())
	}

	return result
}
