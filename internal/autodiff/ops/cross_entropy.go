package ops

import (
	"fmt"
	"math"

	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// CrossEntropyOp records the fused softmax + negative-log-likelihood loss:
//
//	loss = mean_b( -log softmax(logits[b])[targets[b]] )
//
// Fusing the two keeps the backward pass to a single closed form,
//
//	grad_logits[b,i] = (softmax(logits[b])[i] - 1{i == targets[b]}) / batch
//
// which is the reason every framework pairs softmax with cross-entropy
// instead of differentiating them separately.
//
// Targets are int32 class indices and receive no gradient.
type CrossEntropyOp struct {
	logits  *tensor.RawTensor
	targets *tensor.RawTensor
	output  *tensor.RawTensor
}

// NewCrossEntropyOp creates a new CrossEntropyOp.
func NewCrossEntropyOp(logits, targets, output *tensor.RawTensor) *CrossEntropyOp {
	return &CrossEntropyOp{logits: logits, targets: targets, output: output}
}

// Backward computes (softmax - one_hot) / batch, scaled by the upstream
// gradient.
func (op *CrossEntropyOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	shape := op.logits.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("CrossEntropyOp: backward expects 2D logits, got %v", shape))
	}

	grad := gradLike(op.logits)
	targets := op.targets.AsInt32()

	switch op.logits.DType() {
	case tensor.Float32:
		crossEntropyGradRows(grad.AsFloat32(), op.logits.AsFloat32(), targets,
			float64(outputGrad.AsFloat32()[0]), shape[0], shape[1])
	case tensor.Float64:
		crossEntropyGradRows(grad.AsFloat64(), op.logits.AsFloat64(), targets,
			outputGrad.AsFloat64()[0], shape[0], shape[1])
	default:
		panic("CrossEntropyOp: backward requires float logits")
	}

	return []*tensor.RawTensor{grad}
}

func crossEntropyGradRows[T ~float32 | ~float64](dst, logits []T, targets []int32, gradScale float64, rows, cols int) {
	scale := gradScale / float64(rows)

	for b := 0; b < rows; b++ {
		row := logits[b*cols : (b+1)*cols]

		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}
		var sumExp float64
		for _, v := range row {
			sumExp += math.Exp(float64(v - maxVal))
		}

		target := int(targets[b])
		for i, v := range row {
			p := math.Exp(float64(v-maxVal)) / sumExp
			if i == target {
				p -= 1
			}
			dst[b*cols+i] = T(scale * p)
		}
	}
}

// Inputs returns the logits. Targets are constants from the tape's point of
// view.
func (op *CrossEntropyOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.logits} }

// Output returns the [1] loss.
func (op *CrossEntropyOp) Output() *tensor.RawTensor { return op.output }
