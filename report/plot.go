// Package report produces the interpretability artifacts of a fitted
// frequency model: importance ranking, partial and Shapley dependence,
// decile lift, actual-vs-expected diagnostics, tree diagrams and the
// predictions audit table. Every operation is a read-only, single-pass
// transform over the fitted ensemble and held-out data; malformed inputs
// fail fast with the underlying library error.
package report

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/skloese/claimfreq/model"
	"github.com/skloese/claimfreq/pkg/errors"
)

const (
	plotWidth  = 7 * vg.Inch
	plotHeight = 4.5 * vg.Inch
)

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

func savePlot(p *plot.Plot, path string) error {
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}

// PlotLossCurve renders the per-round train/test loss log of the trainer.
func PlotLossCurve(evals []model.RoundEval, path string) error {
	if len(evals) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "PlotLossCurve")
	}

	trainXY := make(plotter.XYs, len(evals))
	testXY := make(plotter.XYs, len(evals))
	for i, e := range evals {
		trainXY[i] = plotter.XY{X: float64(e.Round), Y: e.TrainNLL}
		testXY[i] = plotter.XY{X: float64(e.Round), Y: e.TestNLL}
	}

	p := newPlot("Training convergence", "boosting round", "Poisson NLL")
	trainLine, err := plotter.NewLine(trainXY)
	if err != nil {
		return errors.Wrap(err, "train loss line")
	}
	testLine, err := plotter.NewLine(testXY)
	if err != nil {
		return errors.Wrap(err, "test loss line")
	}
	testLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(trainLine, testLine)
	p.Legend.Add("train", trainLine)
	p.Legend.Add("test", testLine)
	p.Legend.Top = true

	return savePlot(p, path)
}
