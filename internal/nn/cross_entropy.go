package nn

import (
	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// CrossEntropyBackend is the capability interface for backends with a fused
// softmax + negative-log-likelihood loss.
type CrossEntropyBackend interface {
	CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor
}

// CrossEntropyLoss computes the mean cross-entropy between raw logits and
// int32 class indices.
//
// Feed it logits, not probabilities: the fused implementation applies a
// numerically stable log-softmax internally, and its gradient collapses to
// (softmax - one_hot) / batch.
type CrossEntropyLoss[B tensor.Backend] struct{}

// NewCrossEntropyLoss creates a cross-entropy loss module.
func NewCrossEntropyLoss[B tensor.Backend]() *CrossEntropyLoss[B] {
	return &CrossEntropyLoss[B]{}
}

// Forward returns the [1] mean loss for logits [batch, classes] against
// targets [batch].
func (l *CrossEntropyLoss[B]) Forward(logits *tensor.Tensor[float32, B], targets *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	backend := logits.Backend()
	capable, ok := any(backend).(CrossEntropyBackend)
	if !ok {
		panic("CrossEntropyLoss: backend " + backend.Name() + " does not implement CrossEntropy")
	}
	return tensor.New[float32](capable.CrossEntropy(logits.Raw(), targets.Raw()), backend)
}

// L2Penalty computes (lambda/2)·Σ‖Wᵢ‖² over the given parameters as a [1]
// tensor.
//
// The squares and sums go through the backend, so on an autodiff backend
// the penalty joins the recorded graph and each parameter picks up its
// lambda·W gradient contribution along with the data term. Add the result
// to the data loss:
//
//	loss := criterion.Forward(logits, targets).Add(nn.L2Penalty(lambda, model.Parameters()...))
//
// Conventionally only weight matrices are regularized; pass the weights,
// not the biases, if that distinction matters for your model.
func L2Penalty[B tensor.Backend](lambda float64, params ...*Parameter[B]) *tensor.Tensor[float32, B] {
	if len(params) == 0 {
		panic("L2Penalty: no parameters given")
	}

	var total *tensor.Tensor[float32, B]
	for _, p := range params {
		w := p.Tensor()
		sq := w.Mul(w).Sum()
		if total == nil {
			total = sq
		} else {
			total = total.Add(sq)
		}
	}

	return total.MulScalar(float32(lambda / 2))
}

// Accuracy returns the fraction of rows whose argmax matches the target
// class.
func Accuracy[B tensor.Backend](logits *tensor.Tensor[float32, B], targets *tensor.Tensor[int32, B]) float64 {
	predicted := tensor.Argmax(logits, 1).Data()
	expected := targets.Data()

	correct := 0
	for i, p := range predicted {
		if p == expected[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(expected))
}
