package autodiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonwalk-ml/moonwalk/internal/backend/cpu"
	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

func fromF32(t *testing.T, backend *Backend[*cpu.CPUBackend], data []float32, shape tensor.Shape) *tensor.Tensor[float32, *Backend[*cpu.CPUBackend]] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, backend)
	require.NoError(t, err)
	return x
}

func TestSquareGradient(t *testing.T) {
	backend := New(cpu.New())
	backend.Tape().StartRecording()

	x := fromF32(t, backend, []float32{2, 3}, tensor.Shape{2})
	y := x.Mul(x) // y = x²

	grads := Backward(y, backend)

	grad := grads[x.Raw()]
	require.NotNil(t, grad, "x should receive a gradient")
	assert.Equal(t, []float32{4, 6}, grad.AsFloat32(), "dy/dx = 2x")
}

func TestAddGradientFlowsToBoth(t *testing.T) {
	backend := New(cpu.New())
	backend.Tape().StartRecording()

	a := fromF32(t, backend, []float32{1, 2}, tensor.Shape{2})
	b := fromF32(t, backend, []float32{3, 4}, tensor.Shape{2})
	y := a.Add(b)

	grads := Backward(y, backend)

	assert.Equal(t, []float32{1, 1}, grads[a.Raw()].AsFloat32())
	assert.Equal(t, []float32{1, 1}, grads[b.Raw()].AsFloat32())
}

func TestBroadcastBiasGradient(t *testing.T) {
	backend := New(cpu.New())
	backend.Tape().StartRecording()

	// x[3,2] + bias[1,2]: the bias gradient is summed over the batch.
	x := fromF32(t, backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2})
	bias := fromF32(t, backend, []float32{10, 20}, tensor.Shape{1, 2})
	y := x.Add(bias)

	grads := Backward(y, backend)

	biasGrad := grads[bias.Raw()]
	require.NotNil(t, biasGrad)
	assert.Equal(t, tensor.Shape{1, 2}, biasGrad.Shape())
	assert.Equal(t, []float32{3, 3}, biasGrad.AsFloat32())
}

func TestMatMulGradient(t *testing.T) {
	backend := New(cpu.New())
	backend.Tape().StartRecording()

	a := fromF32(t, backend, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromF32(t, backend, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})
	y := a.MatMul(b)

	grads := Backward(y, backend)

	// grad_a = ones @ bᵀ, grad_b = aᵀ @ ones
	assert.Equal(t, []float32{11, 15, 11, 15}, grads[a.Raw()].AsFloat32())
	assert.Equal(t, []float32{4, 4, 6, 6}, grads[b.Raw()].AsFloat32())
}

func TestTanhGradient(t *testing.T) {
	backend := New(cpu.New())
	backend.Tape().StartRecording()

	x := fromF32(t, backend, []float32{0}, tensor.Shape{1})
	y := x.Tanh()

	grads := Backward(y, backend)

	// tanh'(0) = 1 - tanh²(0) = 1
	assert.InDelta(t, 1.0, float64(grads[x.Raw()].AsFloat32()[0]), 1e-6)
}

func TestTransposeThroughMatMul(t *testing.T) {
	backend := New(cpu.New())
	backend.Tape().StartRecording()

	// The Linear-layer pattern: x @ wᵀ. The gradient must arrive at w,
	// not at the transposed copy.
	x := fromF32(t, backend, []float32{1, 2}, tensor.Shape{1, 2})
	w := fromF32(t, backend, []float32{3, 4, 5, 6}, tensor.Shape{2, 2})
	y := x.MatMul(w.T())

	grads := Backward(y, backend)

	wGrad := grads[w.Raw()]
	require.NotNil(t, wGrad, "gradient must flow back through the transpose")
	assert.Equal(t, tensor.Shape{2, 2}, wGrad.Shape())
	assert.Equal(t, []float32{1, 2, 1, 2}, wGrad.AsFloat32())
}

func TestGradientAccumulation(t *testing.T) {
	backend := New(cpu.New())
	backend.Tape().StartRecording()

	x := fromF32(t, backend, []float32{5}, tensor.Shape{1})
	y := x.Add(x) // x used twice: gradients must accumulate

	grads := Backward(y, backend)

	assert.Equal(t, []float32{2}, grads[x.Raw()].AsFloat32())
}

func TestSumGradientBroadcastsSeed(t *testing.T) {
	backend := New(cpu.New())
	backend.Tape().StartRecording()

	// The L2 penalty pattern: sum(w ∘ w) has gradient 2w.
	w := fromF32(t, backend, []float32{1, -2, 3}, tensor.Shape{3})
	loss := w.Mul(w).Sum()

	require.Equal(t, tensor.Shape{1}, loss.Shape())
	grads := Backward(loss, backend)

	assert.Equal(t, []float32{2, -4, 6}, grads[w.Raw()].AsFloat32())
}

func TestCrossEntropyGradient(t *testing.T) {
	backend := New(cpu.New())
	backend.Tape().StartRecording()

	logits := fromF32(t, backend, []float32{0, 0}, tensor.Shape{1, 2})
	targets, err := tensor.FromSlice([]int32{0}, tensor.Shape{1}, backend)
	require.NoError(t, err)

	raw := backend.CrossEntropy(logits.Raw(), targets.Raw())
	loss := tensor.New[float32](raw, backend)

	grads := Backward(loss, backend)

	// softmax = [0.5, 0.5], one-hot = [1, 0], batch = 1.
	grad := grads[logits.Raw()]
	require.NotNil(t, grad)
	assert.InDelta(t, -0.5, float64(grad.AsFloat32()[0]), 1e-6)
	assert.InDelta(t, 0.5, float64(grad.AsFloat32()[1]), 1e-6)

	assert.Nil(t, grads[targets.Raw()], "integer targets receive no gradient")
}

func TestNotRecordingRecordsNothing(t *testing.T) {
	backend := New(cpu.New())

	x := fromF32(t, backend, []float32{1, 2}, tensor.Shape{2})
	_ = x.Mul(x)

	assert.Zero(t, backend.Tape().NumOps())
}

func TestClearPreservesRecordingState(t *testing.T) {
	backend := New(cpu.New())
	backend.Tape().StartRecording()

	x := fromF32(t, backend, []float32{1}, tensor.Shape{1})
	_ = x.Mul(x)
	require.Equal(t, 1, backend.Tape().NumOps())

	backend.Tape().Clear()
	assert.Zero(t, backend.Tape().NumOps())
	assert.True(t, backend.Tape().IsRecording())

	_ = x.Mul(x)
	assert.Equal(t, 1, backend.Tape().NumOps())
}

func TestInputsSurviveInplaceOptimization(t *testing.T) {
	backend := New(cpu.New())
	backend.Tape().StartRecording()

	// The CPU backend would add into x in place if the tape didn't pin
	// the refcount during the forward call.
	x := fromF32(t, backend, []float32{1, 2}, tensor.Shape{2})
	y := fromF32(t, backend, []float32{10, 20}, tensor.Shape{2})
	z := x.Add(y)

	assert.Equal(t, []float32{1, 2}, x.Data(), "input must keep its forward-pass value")
	assert.Equal(t, []float32{11, 22}, z.Data())
}

func TestBackwardWithoutOpsPanics(t *testing.T) {
	backend := New(cpu.New())
	x := fromF32(t, backend, []float32{1}, tensor.Shape{1})

	assert.Panics(t, func() { Backward(x, backend) })
}
