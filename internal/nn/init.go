package nn

import (
	"math"
	"math/rand"

	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// Xavier returns a tensor initialized from the Glorot uniform distribution
// U(-b, b) with b = sqrt(6 / (fanIn + fanOut)).
//
// The bound keeps the variance of activations roughly constant across
// layers, which matters even for a one-hidden-layer network: tanh saturates
// quickly when inputs are too large, and saturated units pass almost no
// gradient.
//
// The rng is passed in rather than taken from the global source so a seeded
// run is reproducible end to end.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	raw, err := tensor.NewRaw(shape, tensor.Float32, backend.Device())
	if err != nil {
		panic(err)
	}

	data := raw.AsFloat32()
	for i := range data {
		data[i] = float32((rng.Float64()*2 - 1) * bound)
	}

	return tensor.New[float32](raw, backend)
}

// Zeros creates a float32 tensor of zeros. The usual bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}
