package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

func TestSum(t *testing.T) {
	backend := New()

	x := rawF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	result := backend.Sum(x)

	assert.Equal(t, tensor.Shape{1}, result.Shape())
	assert.Equal(t, float32(21), result.AsFloat32()[0])
}

func TestSumDim(t *testing.T) {
	backend := New()

	x := rawF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	cols := backend.SumDim(x, 0, false)
	assert.Equal(t, tensor.Shape{3}, cols.Shape())
	assert.Equal(t, []float32{5, 7, 9}, cols.AsFloat32())

	rows := backend.SumDim(x, 1, false)
	assert.Equal(t, tensor.Shape{2}, rows.Shape())
	assert.Equal(t, []float32{6, 15}, rows.AsFloat32())
}

func TestSumDimKeepDim(t *testing.T) {
	backend := New()

	x := rawF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	result := backend.SumDim(x, 0, true)
	assert.Equal(t, tensor.Shape{1, 3}, result.Shape())
	assert.Equal(t, []float32{5, 7, 9}, result.AsFloat32())
}

func TestMeanDim(t *testing.T) {
	backend := New()

	x := rawF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	result := backend.MeanDim(x, 1, false)
	assert.Equal(t, []float32{2, 5}, result.AsFloat32())
}

func TestArgmax(t *testing.T) {
	backend := New()

	x := rawF32(t, []float32{
		0.1, 0.7, 0.2,
		0.9, 0.05, 0.05,
	}, tensor.Shape{2, 3})

	result := backend.Argmax(x, 1)
	assert.Equal(t, tensor.Shape{2}, result.Shape())
	assert.Equal(t, tensor.Int32, result.DType())
	assert.Equal(t, []int32{1, 0}, result.AsInt32())
}

func TestArgmaxTiesPickFirst(t *testing.T) {
	backend := New()

	x := rawF32(t, []float32{0.5, 0.5}, tensor.Shape{1, 2})
	assert.Equal(t, []int32{0}, backend.Argmax(x, 1).AsInt32())
}

func TestSumDimOutOfRangePanics(t *testing.T) {
	backend := New()

	x := rawF32(t, []float32{1, 2}, tensor.Shape{2})
	assert.Panics(t, func() { backend.SumDim(x, 1, false) })
}
