package cpu

import (
	"fmt"

	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) → (M, N).
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: expected 2D tensors, got %v and %v", aShape, bShape))
	}
	if aShape[1] != bShape[0] {
		panic(fmt.Sprintf("matmul: inner dimensions must match: %v @ %v", aShape, bShape))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch: %s vs %s", a.DType(), b.DType()))
	}

	m, k, n := aShape[0], aShape[1], bShape[1]
	result := mustNewRaw(tensor.Shape{m, n}, a.DType(), cpu.device, "matmul")

	switch a.DType() {
	case tensor.Float32:
		matmulKernel(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n)
	case tensor.Float64:
		matmulKernel(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n)
	default:
		panic("matmul: unsupported dtype " + a.DType().String())
	}

	return result
}

// matmulKernel uses the i-k-j loop order so the inner loop streams both b and
// dst sequentially, which is cache-friendlier than the textbook i-j-k order.
func matmulKernel[T ~float32 | ~float64](dst, a, b []T, m, k, n int) {
	for i := 0; i < m; i++ {
		dstRow := dst[i*n : (i+1)*n]
		for p := 0; p < k; p++ {
			aik := a[i*k+p]
			if aik == 0 {
				continue
			}
			bRow := b[p*n : (p+1)*n]
			for j := range dstRow {
				dstRow[j] += aik * bRow[j]
			}
		}
	}
}
