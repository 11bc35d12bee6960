// Package dataset generates the synthetic classification datasets used by
// the training walkthroughs.
package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/moonwalk-ml/moonwalk/internal/tensor"
)

// Set is a labelled 2D point cloud.
//
// X holds the coordinates flattened row-major as [n, 2]; Y holds the int32
// class label of each row.
type Set struct {
	X []float32
	Y []int32
	N int
}

// Moons generates the classic two interleaving half-circles, the same
// layout as scikit-learn's make_moons.
//
// The outer moon (class 0) traces the upper half of the unit circle; the
// inner moon (class 1) traces a lower half-circle shifted right by 1 and up
// by 0.5, so the two arcs interlock and no straight line separates them.
// Gaussian noise with the given standard deviation jitters every
// coordinate.
func Moons(n int, noise float64, rng *rand.Rand) *Set {
	if n < 2 {
		panic(fmt.Sprintf("moons: need at least 2 samples, got %d", n))
	}

	nOuter := n/2 + n%2
	nInner := n / 2

	set := &Set{
		X: make([]float32, 0, 2*n),
		Y: make([]int32, 0, n),
		N: n,
	}

	// A moon with a single point sits at angle 0 rather than dividing by
	// zero steps.
	for i := 0; i < nOuter; i++ {
		t := math.Pi * float64(i) / float64(max(1, nOuter-1))
		set.add(math.Cos(t), math.Sin(t), 0, noise, rng)
	}
	for i := 0; i < nInner; i++ {
		t := math.Pi * float64(i) / float64(max(1, nInner-1))
		set.add(1-math.Cos(t), 0.5-math.Sin(t), 1, noise, rng)
	}

	return set
}

// Shuffle permutes the samples in place, keeping each point paired with its
// label. The same seeded rng yields the same order.
func (s *Set) Shuffle(rng *rand.Rand) {
	rng.Shuffle(s.N, func(i, j int) {
		s.X[2*i], s.X[2*j] = s.X[2*j], s.X[2*i]
		s.X[2*i+1], s.X[2*j+1] = s.X[2*j+1], s.X[2*i+1]
		s.Y[i], s.Y[j] = s.Y[j], s.Y[i]
	})
}

func (s *Set) add(x1, x2 float64, label int32, noise float64, rng *rand.Rand) {
	s.X = append(s.X,
		float32(x1+rng.NormFloat64()*noise),
		float32(x2+rng.NormFloat64()*noise))
	s.Y = append(s.Y, label)
}

// Point returns the coordinates of sample i.
func (s *Set) Point(i int) (x1, x2 float64) {
	return float64(s.X[2*i]), float64(s.X[2*i+1])
}

// Label returns the class of sample i.
func (s *Set) Label(i int) int32 {
	return s.Y[i]
}

// Bounds returns the bounding box of the point cloud, padded on every side.
// Used to frame decision-boundary plots.
func (s *Set) Bounds(pad float64) (xMin, xMax, yMin, yMax float64) {
	xMin, yMin = math.Inf(1), math.Inf(1)
	xMax, yMax = math.Inf(-1), math.Inf(-1)

	for i := 0; i < s.N; i++ {
		x, y := s.Point(i)
		xMin = math.Min(xMin, x)
		xMax = math.Max(xMax, x)
		yMin = math.Min(yMin, y)
		yMax = math.Max(yMax, y)
	}

	return xMin - pad, xMax + pad, yMin - pad, yMax + pad
}

// Classes returns the number of distinct labels.
func (s *Set) Classes() int {
	seen := make(map[int32]struct{})
	for _, y := range s.Y {
		seen[y] = struct{}{}
	}
	return len(seen)
}

// Tensors converts the set into the pair of tensors a model consumes:
// float32 features [n, 2] and int32 labels [n].
func Tensors[B tensor.Backend](s *Set, backend B) (*tensor.Tensor[float32, B], *tensor.Tensor[int32, B], error) {
	x, err := tensor.FromSlice(s.X, tensor.Shape{s.N, 2}, backend)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: features: %w", err)
	}
	y, err := tensor.FromSlice(s.Y, tensor.Shape{s.N}, backend)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: labels: %w", err)
	}
	return x, y, nil
}
