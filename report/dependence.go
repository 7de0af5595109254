package report

import (
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/skloese/claimfreq/model"
	"github.com/skloese/claimfreq/pkg/errors"
)

// DependencePoint is one point of a dependence curve: a feature value and
// the associated response on the predicted-rate scale.
type DependencePoint struct {
	Value    float64
	Response float64
}

// PartialDependence computes the marginal-effect curve of the predicted rate
// against one feature: the feature is swept over its observed range while
// every other feature keeps its empirical distribution, and predictions are
// averaged across the sample. The averaging assumes the swept feature is
// independent of the rest; under correlated features prefer ShapDependence.
func PartialDependence(fm *model.FittedModel, X *mat.Dense, feature string, points int) ([]DependencePoint, error) {
	j, err := featureIndex(fm.FeatureNames, feature)
	if err != nil {
		return nil, err
	}
	rows, _ := X.Dims()
	if rows == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "PartialDependence")
	}
	if points < 2 {
		return nil, errors.NewValueError("PartialDependence", "need at least 2 grid points")
	}

	grid := featureGrid(mat.Col(nil, j, X), points)
	work := mat.DenseCopyOf(X)
	curve := make([]DependencePoint, 0, len(grid))
	for _, v := range grid {
		for i := 0; i < rows; i++ {
			work.Set(i, j, v)
		}
		pred, err := fm.Predict(work)
		if err != nil {
			return nil, errors.Wrapf(err, "partial dependence of %s at %g", feature, v)
		}
		curve = append(curve, DependencePoint{Value: v, Response: meanVec(pred)})
	}
	return curve, nil
}

// featureGrid picks the sweep values: all distinct observed values when few
// (indicator columns collapse to {0, 1}), an even spread over the observed
// range otherwise.
func featureGrid(col []float64, points int) []float64 {
	distinct := map[float64]struct{}{}
	for _, v := range col {
		distinct[v] = struct{}{}
	}
	if len(distinct) <= points {
		grid := make([]float64, 0, len(distinct))
		for v := range distinct {
			grid = append(grid, v)
		}
		sort.Float64s(grid)
		return grid
	}

	lo, hi := col[0], col[0]
	for _, v := range col {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	grid := make([]float64, points)
	step := (hi - lo) / float64(points-1)
	for i := range grid {
		grid[i] = lo + float64(i)*step
	}
	return grid
}

// ShapDependence decomposes predictions into per-feature additive Shapley
// contributions and returns the (feature value, contribution) pairs for one
// feature. Unlike partial dependence this stays valid under correlated
// features. The exact computation is quadratic-ish in sample size, so rows
// are subsampled deterministically down to maxRows; batching beyond that is
// a documented limitation, not solved here.
func ShapDependence(fm *model.FittedModel, X *mat.Dense, feature string, maxRows int) ([]DependencePoint, error) {
	j, err := featureIndex(fm.FeatureNames, feature)
	if err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if rows == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "ShapDependence")
	}
	if maxRows <= 0 {
		maxRows = 1000
	}

	sample := X
	if rows > maxRows {
		stride := rows / maxRows
		picked := mat.NewDense(maxRows, cols, nil)
		for i := 0; i < maxRows; i++ {
			picked.SetRow(i, mat.Row(nil, i*stride, X))
		}
		sample = picked
		rows = maxRows
	}

	shap, err := fm.Regressor.PredictSHAP(sample)
	if err != nil {
		return nil, errors.Wrapf(err, "shap dependence of %s", feature)
	}

	pairs := make([]DependencePoint, rows)
	for i := 0; i < rows; i++ {
		pairs[i] = DependencePoint{
			Value:    sample.At(i, j),
			Response: shap.Values.At(i, j),
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].Value < pairs[b].Value })
	return pairs, nil
}

// PlotDependence renders a dependence curve. Partial dependence reads best
// as a line, Shapley dependence as a scatter; scatter toggles the style.
func PlotDependence(curve []DependencePoint, feature, yLabel, path string, scatter bool) error {
	if len(curve) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "PlotDependence")
	}

	xys := make(plotter.XYs, len(curve))
	for i, pt := range curve {
		xys[i] = plotter.XY{X: pt.Value, Y: pt.Response}
	}

	p := newPlot(feature, feature, yLabel)
	if scatter {
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return errors.Wrap(err, "dependence scatter")
		}
		s.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(s)
	} else {
		l, err := plotter.NewLine(xys)
		if err != nil {
			return errors.Wrap(err, "dependence line")
		}
		p.Add(l)
	}
	return savePlot(p, path)
}

func featureIndex(names []string, feature string) (int, error) {
	for i, n := range names {
		if n == feature {
			return i, nil
		}
	}
	return 0, errors.NewValueError("featureIndex", "unknown feature "+feature)
}

func meanVec(v *mat.VecDense) float64 {
	n := v.Len()
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += v.AtVec(i)
	}
	return sum / float64(n)
}
