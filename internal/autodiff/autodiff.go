// Package autodiff implements reverse-mode automatic differentiation as a
// backend decorator.
//
// Backend[B] wraps any tensor.Backend and records every differentiable
// operation on a GradientTape during the forward pass. Walking the tape in
// reverse then yields the gradient of a scalar output with respect to every
// tensor that fed into it.
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//
//	x, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)
//	y := x.Mul(x) // y = x²
//
//	grads := autodiff.Backward(y, backend)
//	fmt.Println(grads[x.Raw()].AsFloat32()) // dy/dx = 2x = [4]
package autodiff

import (
	"github.com/moonwalk-ml/moonwalk/internal/autodiff/ops"
	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// Backend wraps an inner backend and records operations on a tape.
// It satisfies tensor.Backend, so models run on it unchanged.
type Backend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New creates an autodiff decorator around the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return &Backend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape, for starting/stopping recording and for
// clearing between training iterations.
func (b *Backend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend.
func (b *Backend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *Backend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *Backend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// guard pins the refcount of the inputs for the duration of the inner call.
// The inner backend mutates its left operand in place when the buffer is
// unique; that would overwrite values the tape still needs for backward.
func guard(tensors ...*tensor.RawTensor) func() {
	restores := make([]func(), len(tensors))
	for i, t := range tensors {
		restores[i] = t.ForceNonUnique()
	}
	return func() {
		for _, restore := range restores {
			restore()
		}
	}
}

// Add performs element-wise addition and records it.
func (b *Backend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer guard(x, y)()

	result := b.inner.Add(x, y)
	b.tape.Record(ops.NewAddOp(x, y, result))
	return result
}

// Sub performs element-wise subtraction and records it.
func (b *Backend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer guard(x, y)()

	result := b.inner.Sub(x, y)
	b.tape.Record(ops.NewSubOp(x, y, result))
	return result
}

// Mul performs element-wise multiplication and records it.
func (b *Backend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer guard(x, y)()

	result := b.inner.Mul(x, y)
	b.tape.Record(ops.NewMulOp(x, y, result))
	return result
}

// Div performs element-wise division and records it.
func (b *Backend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer guard(x, y)()

	result := b.inner.Div(x, y)
	b.tape.Record(ops.NewDivOp(x, y, result))
	return result
}

// MatMul performs matrix multiplication and records it.
func (b *Backend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer guard(x, y)()

	result := b.inner.MatMul(x, y)
	b.tape.Record(ops.NewMatMulOp(x, y, result))
	return result
}

// Reshape reshapes a tensor and records it, so gradients reach the
// pre-reshape tensor.
func (b *Backend[B]) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	defer guard(x)()

	result := b.inner.Reshape(x, newShape)
	b.tape.Record(ops.NewReshapeOp(x, result))
	return result
}

// Transpose permutes dimensions and records it. A Linear layer transposes
// its weight before the matmul; without this node the weight parameter
// would never receive a gradient.
func (b *Backend[B]) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	defer guard(x)()

	if len(axes) == 0 {
		rank := len(x.Shape())
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}

	result := b.inner.Transpose(x, axes...)
	b.tape.Record(ops.NewTransposeOp(x, result, axes))
	return result
}

// AddScalar adds a constant and records it.
func (b *Backend[B]) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer guard(x)()

	result := b.inner.AddScalar(x, scalar)
	b.tape.Record(ops.NewAddScalarOp(x, result))
	return result
}

// MulScalar multiplies by a constant and records it.
func (b *Backend[B]) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer guard(x)()

	result := b.inner.MulScalar(x, scalar)
	b.tape.Record(ops.NewMulScalarOp(x, result, scalarValue(scalar)))
	return result
}

func scalarValue(scalar any) float64 {
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
		panic("mul_scalar: unsupported scalar type")
	}
}

// Exp computes the element-wise exponential and records it.
func (b *Backend[B]) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	defer guard(x)()

	result := b.inner.Exp(x)
	b.tape.Record(ops.NewExpOp(x, result))
	return result
}

// Log computes the element-wise natural logarithm and records it.
func (b *Backend[B]) Log(x *tensor.RawTensor) *tensor.RawTensor {
	defer guard(x)()

	result := b.inner.Log(x)
	b.tape.Record(ops.NewLogOp(x, result))
	return result
}

// Tanh computes the element-wise hyperbolic tangent and records it.
func (b *Backend[B]) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	defer guard(x)()

	result := b.inner.Tanh(x)
	b.tape.Record(ops.NewTanhOp(x, result))
	return result
}

// Softmax applies row-wise softmax and records it.
func (b *Backend[B]) Softmax(x *tensor.RawTensor) *tensor.RawTensor {
	defer guard(x)()

	result := b.inner.Softmax(x)
	b.tape.Record(ops.NewSoftmaxOp(x, result))
	return result
}

// Sum reduces to a [1] tensor and records it. This is how scalar penalty
// terms like Σ(W∘W) join the loss graph.
func (b *Backend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	defer guard(x)()

	result := b.inner.Sum(x)
	b.tape.Record(ops.NewSumOp(x, result))
	return result
}

// SumDim delegates to the inner backend without recording.
// Dimension reductions are only used on evaluation paths here.
func (b *Backend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.inner.SumDim(x, dim, keepDim)
}

// MeanDim delegates to the inner backend without recording.
func (b *Backend[B]) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.inner.MeanDim(x, dim, keepDim)
}

// Argmax delegates to the inner backend. Index extraction is not
// differentiable.
func (b *Backend[B]) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.inner.Argmax(x, dim)
}

// reluBackend is the capability an inner backend needs for ReLU.
type reluBackend interface {
	ReLU(x *tensor.RawTensor) *tensor.RawTensor
}

// sigmoidBackend is the capability an inner backend needs for Sigmoid.
type sigmoidBackend interface {
	Sigmoid(x *tensor.RawTensor) *tensor.RawTensor
}

// crossEntropyBackend is the capability an inner backend needs for the fused
// cross-entropy loss.
type crossEntropyBackend interface {
	CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor
}

// ReLU applies max(0, x) and records it. The inner backend must implement
// ReLU.
func (b *Backend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	inner, ok := any(b.inner).(reluBackend)
	if !ok {
		panic("relu: inner backend " + b.inner.Name() + " does not support ReLU")
	}
	defer guard(x)()

	result := inner.ReLU(x)
	b.tape.Record(ops.NewReLUOp(x, result))
	return result
}

// Sigmoid applies the logistic function and records it.
func (b *Backend[B]) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	inner, ok := any(b.inner).(sigmoidBackend)
	if !ok {
		panic("sigmoid: inner backend " + b.inner.Name() + " does not support Sigmoid")
	}
	defer guard(x)()

	result := inner.Sigmoid(x)
	b.tape.Record(ops.NewSigmoidOp(x, result))
	return result
}

// CrossEntropy computes the fused softmax + NLL loss and records it.
// Targets are int32 class indices and are treated as constants.
func (b *Backend[B]) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	inner, ok := any(b.inner).(crossEntropyBackend)
	if !ok {
		panic("cross_entropy: inner backend " + b.inner.Name() + " does not support CrossEntropy")
	}
	defer guard(logits)()

	result := inner.CrossEntropy(logits, targets)
	b.tape.Record(ops.NewCrossEntropyOp(logits, targets, result))
	return result
}
