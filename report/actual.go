package report

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/skloese/claimfreq/dataset"
	"github.com/skloese/claimfreq/pkg/errors"
)

// LevelRate compares observed against fitted average rate for one raw
// (pre-encoding) level of a policy field. It is a model-validation
// diagnostic over held-out rows, not a modelling technique.
type LevelRate struct {
	Level         string
	Exposure      float64
	ObservedRate  float64
	PredictedRate float64
}

// ActualVsExpectedCategorical groups held-out terms by the raw level of one
// categorical field.
func ActualVsExpectedCategorical(terms []dataset.Term, pred []float64, field string) ([]LevelRate, error) {
	if err := checkTermsPred(terms, pred); err != nil {
		return nil, err
	}

	type sums struct {
		exposure float64
		actual   float64
		pred     float64
	}
	groups := make(map[string]*sums)
	for i, t := range terms {
		level, ok := t.Categorical(field)
		if !ok {
			return nil, errors.NewValueError("ActualVsExpectedCategorical", "unknown field "+field)
		}
		g := groups[level]
		if g == nil {
			g = &sums{}
			groups[level] = g
		}
		g.exposure += t.Exposure
		g.actual += t.ClaimCount
		g.pred += pred[i] * t.Exposure
	}

	levels := make([]string, 0, len(groups))
	for lv := range groups {
		levels = append(levels, lv)
	}
	sort.Strings(levels)

	out := make([]LevelRate, 0, len(levels))
	for _, lv := range levels {
		g := groups[lv]
		out = append(out, LevelRate{
			Level:         lv,
			Exposure:      g.exposure,
			ObservedRate:  g.actual / g.exposure,
			PredictedRate: g.pred / g.exposure,
		})
	}
	return out, nil
}

// ActualVsExpectedNumeric groups held-out terms into quantile bins of one
// numeric field, labelled by the bin's value range.
func ActualVsExpectedNumeric(terms []dataset.Term, pred []float64, field string, bins int) ([]LevelRate, error) {
	if err := checkTermsPred(terms, pred); err != nil {
		return nil, err
	}
	if bins < 2 {
		return nil, errors.NewValueError("ActualVsExpectedNumeric", "need at least 2 bins")
	}

	values := make([]float64, len(terms))
	for i, t := range terms {
		v, ok := t.Numeric(field)
		if !ok {
			return nil, errors.NewValueError("ActualVsExpectedNumeric", "unknown field "+field)
		}
		values[i] = v
	}

	edges := make([]float64, 0, bins-1)
	for b := 1; b < bins; b++ {
		q, err := stats.Percentile(stats.Float64Data(values), float64(b)/float64(bins)*100)
		if err != nil {
			return nil, errors.Wrapf(err, "percentile for %s", field)
		}
		if len(edges) == 0 || q > edges[len(edges)-1] {
			edges = append(edges, q)
		}
	}

	type sums struct {
		exposure float64
		actual   float64
		pred     float64
		lo, hi   float64
		seen     bool
	}
	groups := make([]sums, len(edges)+1)
	for i, t := range terms {
		b := sort.SearchFloat64s(edges, values[i])
		g := &groups[b]
		g.exposure += t.Exposure
		g.actual += t.ClaimCount
		g.pred += pred[i] * t.Exposure
		if !g.seen || values[i] < g.lo {
			g.lo = values[i]
		}
		if !g.seen || values[i] > g.hi {
			g.hi = values[i]
		}
		g.seen = true
	}

	out := make([]LevelRate, 0, len(groups))
	for _, g := range groups {
		if !g.seen {
			continue
		}
		out = append(out, LevelRate{
			Level:         fmt.Sprintf("%g-%g", g.lo, g.hi),
			Exposure:      g.exposure,
			ObservedRate:  g.actual / g.exposure,
			PredictedRate: g.pred / g.exposure,
		})
	}
	return out, nil
}

func checkTermsPred(terms []dataset.Term, pred []float64) error {
	if len(terms) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "ActualVsExpected")
	}
	if len(pred) != len(terms) {
		return errors.NewDimensionError("ActualVsExpected", len(terms), len(pred), 0)
	}
	return nil
}

// PlotActualVsExpected renders observed and predicted average rates per
// level of one field.
func PlotActualVsExpected(rates []LevelRate, field, path string) error {
	if len(rates) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "PlotActualVsExpected")
	}

	observed := make(plotter.XYs, len(rates))
	predicted := make(plotter.XYs, len(rates))
	names := make([]string, len(rates))
	for i, r := range rates {
		observed[i] = plotter.XY{X: float64(i), Y: r.ObservedRate}
		predicted[i] = plotter.XY{X: float64(i), Y: r.PredictedRate}
		names[i] = r.Level
	}

	p := newPlot("Actual vs expected: "+field, field, "claim frequency")
	obsLine, obsPoints, err := plotter.NewLinePoints(observed)
	if err != nil {
		return errors.Wrap(err, "observed line")
	}
	predLine, predPoints, err := plotter.NewLinePoints(predicted)
	if err != nil {
		return errors.Wrap(err, "predicted line")
	}
	predLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(obsLine, obsPoints, predLine, predPoints)
	p.Legend.Add("observed", obsLine, obsPoints)
	p.Legend.Add("predicted", predLine, predPoints)
	p.Legend.Top = true
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = -1.2
	p.X.Tick.Label.XAlign = -0.9

	return savePlot(p, path)
}
