// Package plot renders the training visualizations: the decision boundary
// of a trained classifier over its dataset, and the loss curve.
//
// Output format follows the file extension (.svg, .png, .pdf), courtesy of
// gonum/plot.
package plot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/moonwalk-ml/moonwalk/internal/dataset"
)

// classColors picks scatter colors per class. Two classes cover the
// walkthroughs; further classes cycle.
var classColors = []color.RGBA{
	{R: 0xd6, G: 0x28, B: 0x28, A: 0xff}, // red
	{R: 0x1f, G: 0x4e, B: 0xd8, A: 0xff}, // blue
	{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff}, // green
}

// grid is a regular mesh of prediction scores implementing plotter.GridXYZ.
type grid struct {
	x, y []float64
	z    []float64 // len(x)*len(y), row-major by y
}

func (g *grid) Dims() (int, int)   { return len(g.x), len(g.y) }
func (g *grid) X(c int) float64    { return g.x[c] }
func (g *grid) Y(r int) float64    { return g.y[r] }
func (g *grid) Z(c, r int) float64 { return g.z[r*len(g.x)+c] }

// DecisionBoundary renders the model's class-1 score over a dense mesh
// spanning the dataset, with the data points scattered on top. Score 0.5 is
// the boundary; the diverging palette pivots there, so the white band in
// the image IS the decision boundary.
//
// predict maps a single 2D point to the model's probability for class 1.
// resolution is the number of mesh steps per axis (e.g. 200).
func DecisionBoundary(path string, predict func(x1, x2 float64) float64, set *dataset.Set, resolution int) error {
	if resolution < 2 {
		return fmt.Errorf("decision boundary: resolution must be at least 2, got %d", resolution)
	}

	xMin, xMax, yMin, yMax := set.Bounds(0.5)

	mesh := &grid{
		x: floats.Span(make([]float64, resolution), xMin, xMax),
		y: floats.Span(make([]float64, resolution), yMin, yMax),
		z: make([]float64, resolution*resolution),
	}
	for r, y := range mesh.y {
		for c, x := range mesh.x {
			mesh.z[r*resolution+c] = predict(x, y)
		}
	}

	p := plot.New()
	p.Title.Text = "Decision boundary"
	p.X.Label.Text = "x1"
	p.Y.Label.Text = "x2"

	// Diverging palette centered on 0.5.
	colors := moreland.SmoothBlueRed()
	colors.SetMin(0)
	colors.SetMax(1)
	heatMap := plotter.NewHeatMap(mesh, colors.Palette(64))
	heatMap.Min, heatMap.Max = 0, 1
	p.Add(heatMap)

	if err := addScatter(p, set); err != nil {
		return err
	}

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("decision boundary: %w", err)
	}
	return nil
}

func addScatter(p *plot.Plot, set *dataset.Set) error {
	byClass := make(map[int32]plotter.XYs)
	for i := 0; i < set.N; i++ {
		x, y := set.Point(i)
		label := set.Label(i)
		byClass[label] = append(byClass[label], plotter.XY{X: x, Y: y})
	}

	for label, pts := range byClass {
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("decision boundary: scatter: %w", err)
		}
		scatter.GlyphStyle.Color = classColors[int(label)%len(classColors)]
		scatter.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(scatter)
	}
	return nil
}
