package cpu

import (
	"fmt"
	"math"

	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// ReLU computes max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, "relu", func(v float64) float64 { return math.Max(0, v) })
}

// Sigmoid computes 1 / (1 + exp(-x)) element-wise.
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, "sigmoid", func(v float64) float64 { return 1 / (1 + math.Exp(-v)) })
}

// Softmax applies softmax along the last dimension of a 2D tensor.
// Each row is shifted by its maximum before exponentiation, so large logits
// cannot overflow.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("softmax: expected 2D tensor, got %v", shape))
	}

	result := mustNewRaw(shape, x.DType(), cpu.device, "softmax")

	switch x.DType() {
	case tensor.Float32:
		softmaxRows(result.AsFloat32(), x.AsFloat32(), shape[0], shape[1])
	case tensor.Float64:
		softmaxRows(result.AsFloat64(), x.AsFloat64(), shape[0], shape[1])
	default:
		panic("softmax: requires a float tensor, got " + x.DType().String())
	}

	return result
}

func softmaxRows[T ~float32 | ~float64](dst, src []T, rows, cols int) {
	for i := 0; i < rows; i++ {
		row := src[i*cols : (i+1)*cols]
		out := dst[i*cols : (i+1)*cols]

		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}

		var sum T
		for j, v := range row {
			e := T(math.Exp(float64(v - maxVal)))
			out[j] = e
			sum += e
		}
		for j := range out {
			out[j] /= sum
		}
	}
}

// CrossEntropy computes the mean negative log-likelihood of int32 class
// targets [batch] under float logits [batch, classes]. Softmax is folded in
// via the log-sum-exp identity, so probabilities are never materialized.
// Returns a [1] tensor.
func (cpu *CPUBackend) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	shape := logits.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("cross_entropy: expected 2D logits, got %v", shape))
	}
	if len(targets.Shape()) != 1 || targets.Shape()[0] != shape[0] {
		panic(fmt.Sprintf("cross_entropy: targets shape %v does not match batch size %d", targets.Shape(), shape[0]))
	}
	if targets.DType() != tensor.Int32 {
		panic("cross_entropy: targets must be int32, got " + targets.DType().String())
	}

	result := mustNewRaw(tensor.Shape{1}, logits.DType(), cpu.device, "cross_entropy")

	switch logits.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = float32(nllMean(logits.AsFloat32(), targets.AsInt32(), shape[0], shape[1]))
	case tensor.Float64:
		result.AsFloat64()[0] = nllMean(logits.AsFloat64(), targets.AsInt32(), shape[0], shape[1])
	default:
		panic("cross_entropy: requires float logits, got " + logits.DType().String())
	}

	return result
}

func nllMean[T ~float32 | ~float64](logits []T, targets []int32, rows, cols int) float64 {
	var total float64
	for i := 0; i < rows; i++ {
		row := logits[i*cols : (i+1)*cols]

		target := int(targets[i])
		if target < 0 || target >= cols {
			panic(fmt.Sprintf("cross_entropy: target %d out of range for %d classes", target, cols))
		}

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
		// -log softmax[target] = logsumexp(row) - row[target]
		total += math.Log(sumExp) + float64(maxVal) - float64(row[target])
	}
	return total / float64(rows)
}
