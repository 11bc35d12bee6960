package nn

import (
	"fmt"
	"math/rand"

	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// Linear is a fully connected layer computing y = x @ Wᵀ + b.
//
// Shapes:
//   - input x: [batch, in_features]
//   - weight W: [out_features, in_features]
//   - bias b: [out_features]
//   - output y: [batch, out_features]
//
// Weights use Xavier initialization, biases start at zero.
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B]
	bias        *Parameter[B]
}

// NewLinear creates a Linear layer with freshly initialized parameters.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, rng *rand.Rand, backend B) *Linear[B] {
	weight := Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, rng, backend)
	bias := Zeros(tensor.Shape{outFeatures}, backend)

	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", weight),
		bias:        NewParameter("bias", bias),
	}
}

// Forward computes x @ Wᵀ + b.
//
// The transpose and the broadcast bias addition both go through the
// backend, so on an autodiff backend the whole affine map is recorded and
// both parameters receive gradients.
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D input [batch, features], got %v", shape))
	}
	if shape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected %d input features, got %d", l.inFeatures, shape[1]))
	}

	output := input.MatMul(l.weight.Tensor().T())

	// [out] -> [1, out] so broadcasting adds the bias to every row.
	return output.Add(l.bias.Tensor().Reshape(1, l.outFeatures))
}

// Parameters returns [weight, bias].
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear[B]) Bias() *Parameter[B] {
	return l.bias
}

// InFeatures returns the input width.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the output width.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}
