package optim

import (
	"math"

	"github.com/moonwalk-ml/moonwalk/internal/nn"
	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// Adam implements the Adam optimizer (Kingma & Ba, 2015).
//
// Per parameter element it maintains exponential moving averages of the
// gradient (m) and squared gradient (v):
//
//	m ← β₁·m + (1-β₁)·g
//	v ← β₂·v + (1-β₂)·g²
//	param ← param - lr·m̂ / (√v̂ + ε)
//
// where m̂ and v̂ are bias-corrected for the early steps. Fixed-step SGD is
// enough for the two-moons walkthrough; Adam is here for the models where
// per-parameter step sizes make the difference.
type Adam[B tensor.Backend] struct {
	params []*nn.Parameter[B]
	lr     float32
	beta1  float32
	beta2  float32
	eps    float32
	step   int

	m map[*nn.Parameter[B]][]float32
	v map[*nn.Parameter[B]][]float32
}

// AdamConfig configures the Adam optimizer. Zero values take the usual
// defaults (lr 0.001, β₁ 0.9, β₂ 0.999, ε 1e-8).
type AdamConfig struct {
	LR    float32
	Beta1 float32
	Beta2 float32
	Eps   float32
}

// NewAdam creates an Adam optimizer over the given parameters.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], config AdamConfig) *Adam[B] {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Beta1 == 0 {
		config.Beta1 = 0.9
	}
	if config.Beta2 == 0 {
		config.Beta2 = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam[B]{
		params: params,
		lr:     config.LR,
		beta1:  config.Beta1,
		beta2:  config.Beta2,
		eps:    config.Eps,
		m:      make(map[*nn.Parameter[B]][]float32),
		v:      make(map[*nn.Parameter[B]][]float32),
	}
}

// Step applies one Adam update. Like SGD, it writes through the existing
// parameter buffers.
func (a *Adam[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	a.step++

	correction1 := 1 - math.Pow(float64(a.beta1), float64(a.step))
	correction2 := 1 - math.Pow(float64(a.beta2), float64(a.step))

	for _, param := range a.params {
		grad := gradientFor(param, grads)
		if grad == nil {
			continue
		}

		paramData := param.Tensor().Raw().AsFloat32()
		gradData := grad.AsFloat32()

		m, ok := a.m[param]
		if !ok {
			m = make([]float32, len(paramData))
			a.m[param] = m
		}
		v, ok := a.v[param]
		if !ok {
			v = make([]float32, len(paramData))
			a.v[param] = v
		}

		for i := range paramData {
			g := gradData[i]
			m[i] = a.beta1*m[i] + (1-a.beta1)*g
			v[i] = a.beta2*v[i] + (1-a.beta2)*g*g

			mHat := float64(m[i]) / correction1
			vHat := float64(v[i]) / correction2

			paramData[i] -= float32(float64(a.lr) * mHat / (math.Sqrt(vHat) + float64(a.eps)))
		}
	}
}

// ZeroGrad detaches gradients from all parameters.
func (a *Adam[B]) ZeroGrad() {
	for _, param := range a.params {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (a *Adam[B]) GetLR() float32 {
	return a.lr
}
