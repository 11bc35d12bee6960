package cpu

import (
	"fmt"

	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// AddScalar adds a scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := mustNewRaw(x.Shape(), x.DType(), cpu.device, "add_scalar")

	switch x.DType() {
	case tensor.Float32:
		s := float32(scalarToFloat64(scalar, "add_scalar"))
		mapScalar(result.AsFloat32(), x.AsFloat32(), s, addOf[float32])
	case tensor.Float64:
		s := scalarToFloat64(scalar, "add_scalar")
		mapScalar(result.AsFloat64(), x.AsFloat64(), s, addOf[float64])
	case tensor.Int32:
		s := int32(scalarToInt64(scalar, "add_scalar"))
		mapScalar(result.AsInt32(), x.AsInt32(), s, addOf[int32])
	case tensor.Int64:
		s := scalarToInt64(scalar, "add_scalar")
		mapScalar(result.AsInt64(), x.AsInt64(), s, addOf[int64])
	default:
		panic("add_scalar: unsupported dtype")
	}

	return result
}

// MulScalar multiplies every element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result := mustNewRaw(x.Shape(), x.DType(), cpu.device, "mul_scalar")

	switch x.DType() {
	case tensor.Float32:
		s := float32(scalarToFloat64(scalar, "mul_scalar"))
		mapScalar(result.AsFloat32(), x.AsFloat32(), s, mulOf[float32])
	case tensor.Float64:
		s := scalarToFloat64(scalar, "mul_scalar")
		mapScalar(result.AsFloat64(), x.AsFloat64(), s, mulOf[float64])
	case tensor.Int32:
		s := int32(scalarToInt64(scalar, "mul_scalar"))
		mapScalar(result.AsInt32(), x.AsInt32(), s, mulOf[int32])
	case tensor.Int64:
		s := scalarToInt64(scalar, "mul_scalar")
		mapScalar(result.AsInt64(), x.AsInt64(), s, mulOf[int64])
	default:
		panic("mul_scalar: unsupported dtype")
	}

	return result
}

func mapScalar[T number](dst, src []T, scalar T, f func(T, T) T) {
	for i := range dst {
		dst[i] = f(src[i], scalar)
	}
}

func scalarToFloat64(scalar any, opName string) float64 {
	switch s := scalar.(type) {
	case float32:
		return float64(s)
	case float64:
		return s
	case int:
		return float64(s)
	case int32:
		return float64(s)
	case int64:
		return float64(s)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", opName, scalar))
	}
}

func scalarToInt64(scalar any, opName string) int64 {
	switch s := scalar.(type) {
	case int:
		return int64(s)
	case int32:
		return int64(s)
	case int64:
		return s
	case float32:
		return int64(s)
	case float64:
		return int64(s)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", opName, scalar))
	}
}
