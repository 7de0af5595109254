package report

import (
	"sort"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/skloese/claimfreq/model"
	"github.com/skloese/claimfreq/pkg/errors"
)

// FeatureImportance is one feature's share of the ensemble's native
// gain-based importance. Indicator features are reported individually; the
// reference level of each categorical field carries no column, so its
// effect is absorbed into the baseline, not the ranking.
type FeatureImportance struct {
	Feature string
	Gain    float64
}

// Importance ranks features by the ensemble's split-gain importance,
// descending.
func Importance(fm *model.FittedModel) ([]FeatureImportance, error) {
	gains := fm.Regressor.GetFeatureImportance("gain")
	if gains == nil {
		return nil, errors.NewNotFittedError("FittedModel", "Importance")
	}
	if len(gains) != len(fm.FeatureNames) {
		return nil, errors.NewDimensionError("Importance", len(fm.FeatureNames), len(gains), 1)
	}

	ranked := make([]FeatureImportance, len(gains))
	for i, g := range gains {
		ranked[i] = FeatureImportance{Feature: fm.FeatureNames[i], Gain: g}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Gain > ranked[j].Gain
	})
	return ranked, nil
}

// PlotImportance renders the ranked importances as a horizontal-style bar
// chart, most important feature first.
func PlotImportance(ranked []FeatureImportance, path string) error {
	if len(ranked) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "PlotImportance")
	}

	values := make(plotter.Values, len(ranked))
	names := make([]string, len(ranked))
	for i, fi := range ranked {
		values[i] = fi.Gain
		names[i] = fi.Feature
	}

	p := newPlot("Feature importance (gain)", "", "gain")
	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return errors.Wrap(err, "importance bars")
	}
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = -1.2
	p.X.Tick.Label.XAlign = -0.9

	return savePlot(p, path)
}
