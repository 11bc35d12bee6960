package autodiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/moonwalk-ml/moonwalk/internal/backend/cpu"
	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// Gradient checks compare the tape's analytic gradients against central
// finite differences from gonum's diff/fd. Everything runs in float64 so
// the comparison tolerance reflects the method, not the storage precision.

type adBackend = *Backend[*cpu.CPUBackend]

func fromF64(t *testing.T, backend adBackend, data []float64, shape tensor.Shape) *tensor.Tensor[float64, adBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, backend)
	require.NoError(t, err)
	return x
}

// checkGradient compares the analytic gradient of loss(x) at x0 with a
// finite-difference estimate. loss must reduce to a [1] tensor.
func checkGradient(t *testing.T, shape tensor.Shape, x0 []float64,
	loss func(backend adBackend, x *tensor.Tensor[float64, adBackend]) *tensor.Tensor[float64, adBackend],
) {
	t.Helper()

	// Analytic gradient from the tape.
	backend := New(cpu.New())
	backend.Tape().StartRecording()
	x := fromF64(t, backend, x0, shape)
	out := loss(backend, x)
	require.Equal(t, tensor.Shape{1}, out.Shape(), "loss must be scalar")

	grads := Backward(out, backend)
	got := grads[x.Raw()]
	require.NotNil(t, got, "loss must depend on x")

	// Numeric gradient by central differences.
	f := func(v []float64) float64 {
		b := New(cpu.New())
		xv := fromF64(t, b, v, shape)
		return loss(b, xv).Item()
	}
	want := fd.Gradient(nil, f, x0, &fd.Settings{Formula: fd.Central})

	for i, w := range want {
		assert.InDelta(t, w, got.AsFloat64()[i], 1e-6, "component %d", i)
	}
}

func TestGradientCheckTanh(t *testing.T) {
	checkGradient(t, tensor.Shape{4}, []float64{0.3, -0.5, 0.8, 0.1},
		func(_ adBackend, x *tensor.Tensor[float64, adBackend]) *tensor.Tensor[float64, adBackend] {
			return x.Tanh().Sum()
		})
}

func TestGradientCheckExpLog(t *testing.T) {
	checkGradient(t, tensor.Shape{3}, []float64{0.5, 1.2, 2.0},
		func(_ adBackend, x *tensor.Tensor[float64, adBackend]) *tensor.Tensor[float64, adBackend] {
			return x.Exp().Log().Mul(x).Sum()
		})
}

func TestGradientCheckDiv(t *testing.T) {
	checkGradient(t, tensor.Shape{3}, []float64{1.5, -2.0, 0.7},
		func(backend adBackend, x *tensor.Tensor[float64, adBackend]) *tensor.Tensor[float64, adBackend] {
			denom := fromF64(t, backend, []float64{2, 3, 4}, tensor.Shape{3})
			return x.Div(denom).Sum()
		})
}

func TestGradientCheckMatMulChain(t *testing.T) {
	checkGradient(t, tensor.Shape{2, 3}, []float64{0.1, -0.2, 0.3, 0.4, -0.5, 0.6},
		func(backend adBackend, x *tensor.Tensor[float64, adBackend]) *tensor.Tensor[float64, adBackend] {
			w := fromF64(t, backend, []float64{1, -1, 0.5, 2, -0.5, 1}, tensor.Shape{3, 2})
			return x.MatMul(w).Tanh().Sum()
		})
}

func TestGradientCheckSoftmax(t *testing.T) {
	// Weight the softmax outputs so the gradient is not identically zero
	// (the components of each softmax row sum to one).
	checkGradient(t, tensor.Shape{2, 3}, []float64{1, 2, 3, -1, 0, 1},
		func(backend adBackend, x *tensor.Tensor[float64, adBackend]) *tensor.Tensor[float64, adBackend] {
			weights := fromF64(t, backend, []float64{1, 2, 4, 1, 2, 4}, tensor.Shape{2, 3})
			return x.Softmax().Mul(weights).Sum()
		})
}

func TestGradientCheckCrossEntropy(t *testing.T) {
	targetData := []int32{1, 0}

	checkGradient(t, tensor.Shape{2, 2}, []float64{0.5, -0.3, 1.2, 0.8},
		func(backend adBackend, x *tensor.Tensor[float64, adBackend]) *tensor.Tensor[float64, adBackend] {
			targets, err := tensor.FromSlice(targetData, tensor.Shape{2}, backend)
			require.NoError(t, err)
			raw := backend.CrossEntropy(x.Raw(), targets.Raw())
			return tensor.New[float64](raw, backend)
		})
}

func TestGradientCheckTwoLayerNetwork(t *testing.T) {
	// A miniature of the full training objective: affine, tanh, affine,
	// cross-entropy, plus an L2 term on the weight under test.
	targetData := []int32{0, 1, 1}

	checkGradient(t, tensor.Shape{2, 2}, []float64{0.4, -0.6, 0.3, 0.9},
		func(backend adBackend, w *tensor.Tensor[float64, adBackend]) *tensor.Tensor[float64, adBackend] {
			x := fromF64(t, backend, []float64{0.1, 0.2, -0.3, 0.4, 0.5, -0.6}, tensor.Shape{3, 2})
			b := fromF64(t, backend, []float64{0.05, -0.05}, tensor.Shape{1, 2})

			hidden := x.MatMul(w).Add(b).Tanh()

			w2 := fromF64(t, backend, []float64{1, -0.5, 0.5, 1}, tensor.Shape{2, 2})
			logits := hidden.MatMul(w2)

			targets, err := tensor.FromSlice(targetData, tensor.Shape{3}, backend)
			require.NoError(t, err)
			ce := tensor.New[float64](backend.CrossEntropy(logits.Raw(), targets.Raw()), backend)

			l2 := w.Mul(w).Sum().MulScalar(0.005)
			return ce.Add(l2)
		})
}
