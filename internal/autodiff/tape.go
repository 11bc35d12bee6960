package autodiff

import (
	"github.com/moonwalk-ml/moonwalk/internal/autodiff/ops"
	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// GradientTape records operations during the forward pass and replays them
// in reverse to compute gradients.
//
// A training loop owns the lifecycle:
//
//	tape.StartRecording()
//	for epoch := range epochs {
//	    tape.Clear()
//	    loss := forward(...)
//	    grads := tape.Backward(seed, backend)
//	    ...
//	}
type GradientTape struct {
	operations []ops.Operation
	recording  bool
}

// NewGradientTape creates a tape that is not yet recording.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 64),
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording reports whether operations are currently being recorded.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record appends an operation if the tape is recording.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear drops all recorded operations. The recording flag is preserved, so
// a training loop can clear once per iteration without re-arming the tape.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// Operations returns the recorded operations in execution order.
// Used by the graph exporter; callers must not mutate the slice.
func (t *GradientTape) Operations() []ops.Operation {
	return t.operations
}

// Backward walks the tape in reverse, applying the chain rule.
//
// outputGrad seeds the gradient of the last recorded operation's output
// (ones for a scalar loss). When a tensor feeds several operations, its
// gradients are accumulated by addition. The result maps each raw tensor
// that received a gradient to that gradient.
func (t *GradientTape) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) map[*tensor.RawTensor]*tensor.RawTensor {
	grads := make(map[*tensor.RawTensor]*tensor.RawTensor)
	if len(t.operations) == 0 {
		return grads
	}

	// The gradient computations below go through the same backend; they
	// must not themselves end up on the tape.
	wasRecording := t.recording
	t.recording = false
	defer func() { t.recording = wasRecording }()

	last := t.operations[len(t.operations)-1]
	grads[last.Output()] = outputGrad

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]

		outGrad, ok := grads[op.Output()]
		if !ok {
			// Nothing downstream used this result.
			continue
		}

		inputGrads := op.Backward(outGrad, backend)
		for j, input := range op.Inputs() {
			if j >= len(inputGrads) || inputGrads[j] == nil {
				continue
			}
			if existing, ok := grads[input]; ok {
				grads[input] = backend.Add(existing, inputGrads[j])
			} else {
				grads[input] = inputGrads[j]
			}
		}
	}

	return grads
}
