package plot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// LossCurve renders training losses against epochs. losses[i] is the loss
// at epoch i*every, matching a loop that samples the loss every `every`
// epochs.
func LossCurve(path string, losses []float64, every int) error {
	if len(losses) == 0 {
		return fmt.Errorf("loss curve: no losses to plot")
	}
	if every < 1 {
		every = 1
	}

	pts := make(plotter.XYs, len(losses))
	for i, loss := range losses {
		pts[i] = plotter.XY{X: float64(i * every), Y: loss}
	}

	p := plot.New()
	p.Title.Text = "Training loss"
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = "loss"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("loss curve: %w", err)
	}
	line.Color = plotutil.Color(0)
	p.Add(line)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("loss curve: %w", err)
	}
	return nil
}
