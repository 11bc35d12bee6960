package optim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonwalk-ml/moonwalk/internal/autodiff"
	"github.com/moonwalk-ml/moonwalk/internal/backend/cpu"
	"github.com/moonwalk-ml/moonwalk/internal/nn"
	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

type adB = *autodiff.Backend[*cpu.CPUBackend]

func paramWithGrad(t *testing.T, backend *cpu.CPUBackend, values, gradValues []float32) (*nn.Parameter[*cpu.CPUBackend], map[*tensor.RawTensor]*tensor.RawTensor) {
	t.Helper()

	w, err := tensor.FromSlice(values, tensor.Shape{len(values)}, backend)
	require.NoError(t, err)
	param := nn.NewParameter("weight", w)

	g, err := tensor.FromSlice(gradValues, tensor.Shape{len(gradValues)}, backend)
	require.NoError(t, err)

	return param, map[*tensor.RawTensor]*tensor.RawTensor{w.Raw(): g.Raw()}
}

func TestSGDStep(t *testing.T) {
	backend := cpu.New()
	param, grads := paramWithGrad(t, backend, []float32{1, 2}, []float32{10, -10})

	sgd := NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param}, SGDConfig{LR: 0.1})
	sgd.Step(grads)

	// param ← param - lr·grad
	assert.InDelta(t, 0.0, float64(param.Tensor().Data()[0]), 1e-6)
	assert.InDelta(t, 3.0, float64(param.Tensor().Data()[1]), 1e-6)
}

func TestSGDStepPreservesRawPointer(t *testing.T) {
	backend := cpu.New()
	param, grads := paramWithGrad(t, backend, []float32{1}, []float32{1})

	before := param.Tensor().Raw()
	sgd := NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param}, SGDConfig{LR: 0.5})
	sgd.Step(grads)

	assert.Same(t, before, param.Tensor().Raw(),
		"in-place update must keep the raw tensor the gradient map is keyed by")
}

func TestSGDSkipsParamsWithoutGradient(t *testing.T) {
	backend := cpu.New()
	w, err := tensor.FromSlice([]float32{5}, tensor.Shape{1}, backend)
	require.NoError(t, err)
	param := nn.NewParameter("weight", w)

	sgd := NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param}, SGDConfig{LR: 0.1})
	sgd.Step(map[*tensor.RawTensor]*tensor.RawTensor{})

	assert.Equal(t, float32(5), param.Tensor().Data()[0])
}

func TestSGDMomentumAccumulates(t *testing.T) {
	backend := cpu.New()
	param, grads := paramWithGrad(t, backend, []float32{0}, []float32{1})

	sgd := NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param}, SGDConfig{LR: 1, Momentum: 0.5})

	// Step 1: v = 1, param = -1
	sgd.Step(grads)
	assert.InDelta(t, -1.0, float64(param.Tensor().Data()[0]), 1e-6)

	// Step 2: v = 0.5·1 + 1 = 1.5, param = -2.5
	sgd.Step(grads)
	assert.InDelta(t, -2.5, float64(param.Tensor().Data()[0]), 1e-6)
}

func TestSGDDefaultLR(t *testing.T) {
	sgd := NewSGD[*cpu.CPUBackend](nil, SGDConfig{})
	assert.Equal(t, float32(0.01), sgd.GetLR())
}

func TestAdamStepDirection(t *testing.T) {
	backend := cpu.New()
	param, grads := paramWithGrad(t, backend, []float32{1, 1}, []float32{2, -2})

	adam := NewAdam([]*nn.Parameter[*cpu.CPUBackend]{param}, AdamConfig{LR: 0.1})
	adam.Step(grads)

	// First Adam step moves each element by ≈lr against the gradient sign.
	data := param.Tensor().Data()
	assert.InDelta(t, 0.9, float64(data[0]), 1e-3)
	assert.InDelta(t, 1.1, float64(data[1]), 1e-3)
}

func TestZeroGradDetaches(t *testing.T) {
	backend := cpu.New()
	w, err := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)
	require.NoError(t, err)
	param := nn.NewParameter("weight", w)
	param.SetGrad(w.Clone())

	sgd := NewSGD([]*nn.Parameter[*cpu.CPUBackend]{param}, SGDConfig{LR: 0.1})
	sgd.ZeroGrad()

	assert.Nil(t, param.Grad())
}

// TestTrainingLoopReducesLoss runs a handful of full train iterations on a
// tiny separable problem and checks that gradient descent actually
// descends.
func TestTrainingLoopReducesLoss(t *testing.T) {
	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(5))

	model := nn.NewSequential[adB](
		nn.NewLinear(2, 3, rng, backend),
		nn.NewTanh[adB](),
		nn.NewLinear(3, 2, rng, backend),
	)
	criterion := nn.NewCrossEntropyLoss[adB]()
	optimizer := NewSGD(model.Parameters(), SGDConfig{LR: 0.5})

	x, err := tensor.FromSlice([]float32{
		-1, -1,
		-1, -0.5,
		1, 1,
		0.5, 1,
	}, tensor.Shape{4, 2}, backend)
	require.NoError(t, err)
	y, err := tensor.FromSlice([]int32{0, 0, 1, 1}, tensor.Shape{4}, backend)
	require.NoError(t, err)

	backend.Tape().StartRecording()

	var first, last float32
	for epoch := 0; epoch < 50; epoch++ {
		backend.Tape().Clear()

		logits := model.Forward(x)
		loss := criterion.Forward(logits, y)

		if epoch == 0 {
			first = loss.Item()
		}
		last = loss.Item()

		grads := autodiff.Backward(loss, backend)
		optimizer.Step(grads)
		optimizer.ZeroGrad()
	}

	assert.Less(t, last, first, "loss must decrease over training")
	assert.Less(t, last, float32(0.2), "tiny separable problem should be nearly solved")
}
