package plot

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonwalk-ml/moonwalk/internal/dataset"
)

func TestDecisionBoundaryWritesSVG(t *testing.T) {
	set := dataset.Moons(40, 0.1, rand.New(rand.NewSource(1)))
	path := filepath.Join(t.TempDir(), "boundary.svg")

	// A fixed diagonal "model" is enough to exercise the renderer.
	predict := func(x1, x2 float64) float64 {
		if x1+x2 > 0.5 {
			return 0.9
		}
		return 0.1
	}

	require.NoError(t, DecisionBoundary(path, predict, set, 50))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "<svg"), "output should be an SVG document")
}

func TestDecisionBoundaryRejectsBadResolution(t *testing.T) {
	set := dataset.Moons(10, 0, rand.New(rand.NewSource(1)))
	err := DecisionBoundary(filepath.Join(t.TempDir(), "x.svg"), func(_, _ float64) float64 { return 0 }, set, 1)
	assert.Error(t, err)
}

func TestLossCurve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loss.svg")

	losses := []float64{0.7, 0.5, 0.4, 0.35, 0.33}
	require.NoError(t, LossCurve(path, losses, 1000))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestLossCurveClampsInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loss.svg")
	require.NoError(t, LossCurve(path, []float64{0.7, 0.5}, 0))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestLossCurveEmpty(t *testing.T) {
	assert.Error(t, LossCurve(filepath.Join(t.TempDir(), "x.svg"), nil, 1))
}
