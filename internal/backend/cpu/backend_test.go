package cpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

func rawF32(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(raw.AsFloat32(), data)
	return raw
}

func rawI32(t *testing.T, data []int32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	copy(raw.AsInt32(), data)
	return raw
}

func TestAdd(t *testing.T) {
	backend := New()

	a := rawF32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := rawF32(t, []float32{10, 20, 30, 40}, tensor.Shape{2, 2})

	result := backend.Add(a, b)
	assert.Equal(t, []float32{11, 22, 33, 44}, result.AsFloat32())
}

func TestAddInplaceFastPath(t *testing.T) {
	backend := New()

	a := rawF32(t, []float32{1, 2}, tensor.Shape{2})
	b := rawF32(t, []float32{3, 4}, tensor.Shape{2})

	require.True(t, a.IsUnique())
	result := backend.Add(a, b)
	assert.Same(t, a, result, "unique left operand should be mutated in place")
}

func TestAddRespectsSharedBuffer(t *testing.T) {
	backend := New()

	a := rawF32(t, []float32{1, 2}, tensor.Shape{2})
	b := rawF32(t, []float32{3, 4}, tensor.Shape{2})

	defer a.ForceNonUnique()()
	result := backend.Add(a, b)

	assert.NotSame(t, a, result)
	assert.Equal(t, []float32{1, 2}, a.AsFloat32(), "input must be preserved")
	assert.Equal(t, []float32{4, 6}, result.AsFloat32())
}

func TestAddBroadcastBiasRow(t *testing.T) {
	backend := New()

	// [2, 3] + [1, 3]: the classic affine bias pattern.
	x := rawF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	bias := rawF32(t, []float32{10, 20, 30}, tensor.Shape{1, 3})

	result := backend.Add(x, bias)
	assert.Equal(t, tensor.Shape{2, 3}, result.Shape())
	assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, result.AsFloat32())
}

func TestSubMulDiv(t *testing.T) {
	backend := New()

	a := rawF32(t, []float32{4, 9, 16}, tensor.Shape{3})
	b := rawF32(t, []float32{2, 3, 4}, tensor.Shape{3})
	defer a.ForceNonUnique()()

	assert.Equal(t, []float32{2, 6, 12}, backend.Sub(a, b).AsFloat32())
	assert.Equal(t, []float32{8, 27, 64}, backend.Mul(a, b).AsFloat32())
	assert.Equal(t, []float32{2, 3, 4}, backend.Div(a, b).AsFloat32())
}

func TestAddShapeMismatchPanics(t *testing.T) {
	backend := New()

	a := rawF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := rawF32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})

	assert.Panics(t, func() { backend.Add(a, b) })
}

func TestMatMul(t *testing.T) {
	backend := New()

	// [[1, 2], [3, 4]] @ [[5, 6], [7, 8]] = [[19, 22], [43, 50]]
	a := rawF32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := rawF32(t, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})

	result := backend.MatMul(a, b)
	assert.Equal(t, []float32{19, 22, 43, 50}, result.AsFloat32())
}

func TestMatMulRectangular(t *testing.T) {
	backend := New()

	a := rawF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := rawF32(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	result := backend.MatMul(a, b)
	assert.Equal(t, tensor.Shape{2, 2}, result.Shape())
	assert.Equal(t, []float32{58, 64, 139, 154}, result.AsFloat32())
}

func TestMatMulDimensionMismatchPanics(t *testing.T) {
	backend := New()

	a := rawF32(t, make([]float32, 6), tensor.Shape{2, 3})
	b := rawF32(t, make([]float32, 4), tensor.Shape{2, 2})

	assert.Panics(t, func() { backend.MatMul(a, b) })
}

func TestScalarOps(t *testing.T) {
	backend := New()

	x := rawF32(t, []float32{1, 2, 3}, tensor.Shape{3})

	assert.Equal(t, []float32{11, 12, 13}, backend.AddScalar(x, float32(10)).AsFloat32())
	assert.Equal(t, []float32{2, 4, 6}, backend.MulScalar(x, 2.0).AsFloat32())
	assert.Equal(t, []float32{1, 2, 3}, x.AsFloat32(), "scalar ops must not mutate input")
}

func TestUnaryMath(t *testing.T) {
	backend := New()

	x := rawF32(t, []float32{0, 1, -1}, tensor.Shape{3})

	exp := backend.Exp(x).AsFloat32()
	assert.InDelta(t, 1.0, exp[0], 1e-6)
	assert.InDelta(t, math.E, exp[1], 1e-6)

	tanh := backend.Tanh(x).AsFloat32()
	assert.InDelta(t, 0.0, tanh[0], 1e-6)
	assert.InDelta(t, math.Tanh(1), float64(tanh[1]), 1e-6)
	assert.InDelta(t, -math.Tanh(1), float64(tanh[2]), 1e-6)

	logX := rawF32(t, []float32{1, math.E}, tensor.Shape{2})
	logs := backend.Log(logX).AsFloat32()
	assert.InDelta(t, 0.0, logs[0], 1e-6)
	assert.InDelta(t, 1.0, logs[1], 1e-6)
}

func TestReLUSigmoid(t *testing.T) {
	backend := New()

	x := rawF32(t, []float32{-2, 0, 3}, tensor.Shape{3})

	assert.Equal(t, []float32{0, 0, 3}, backend.ReLU(x).AsFloat32())

	sig := backend.Sigmoid(x).AsFloat32()
	assert.InDelta(t, 0.5, sig[1], 1e-6)
	assert.Less(t, sig[0], float32(0.5))
	assert.Greater(t, sig[2], float32(0.5))
}

func TestSoftmax(t *testing.T) {
	backend := New()

	x := rawF32(t, []float32{1, 2, 3, 1, 1, 1}, tensor.Shape{2, 3})
	result := backend.Softmax(x).AsFloat32()

	// Each row sums to 1.
	assert.InDelta(t, 1.0, float64(result[0]+result[1]+result[2]), 1e-6)
	assert.InDelta(t, 1.0, float64(result[3]+result[4]+result[5]), 1e-6)

	// Larger logits get larger probabilities; equal logits split evenly.
	assert.Greater(t, result[2], result[1])
	assert.Greater(t, result[1], result[0])
	assert.InDelta(t, 1.0/3.0, float64(result[3]), 1e-6)
}

func TestSoftmaxLargeLogitsStable(t *testing.T) {
	backend := New()

	x := rawF32(t, []float32{1000, 1001, 1002}, tensor.Shape{1, 3})
	result := backend.Softmax(x).AsFloat32()

	var sum float32
	for _, v := range result {
		assert.False(t, math.IsNaN(float64(v)))
		sum += v
	}
	assert.InDelta(t, 1.0, float64(sum), 1e-6)
}

func TestCrossEntropy(t *testing.T) {
	backend := New()

	// Uniform logits over 2 classes: loss = ln(2) regardless of targets.
	logits := rawF32(t, []float32{0, 0, 0, 0}, tensor.Shape{2, 2})
	targets := rawI32(t, []int32{0, 1}, tensor.Shape{2})

	loss := backend.CrossEntropy(logits, targets)
	assert.Equal(t, tensor.Shape{1}, loss.Shape())
	assert.InDelta(t, math.Log(2), float64(loss.AsFloat32()[0]), 1e-6)
}

func TestCrossEntropyConfidentCorrect(t *testing.T) {
	backend := New()

	logits := rawF32(t, []float32{10, -10, -10, 10}, tensor.Shape{2, 2})
	targets := rawI32(t, []int32{0, 1}, tensor.Shape{2})

	loss := backend.CrossEntropy(logits, targets).AsFloat32()[0]
	assert.Less(t, loss, float32(1e-3), "confident correct predictions give near-zero loss")
}

func TestTranspose2D(t *testing.T) {
	backend := New()

	x := rawF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	result := backend.Transpose(x)

	assert.Equal(t, tensor.Shape{3, 2}, result.Shape())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, result.AsFloat32())
}

func TestReshape(t *testing.T) {
	backend := New()

	x := rawF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	result := backend.Reshape(x, tensor.Shape{3, 2})

	assert.Equal(t, tensor.Shape{3, 2}, result.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, result.AsFloat32())

	assert.Panics(t, func() { backend.Reshape(x, tensor.Shape{4, 2}) })
}
