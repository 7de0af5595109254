package report

import (
	"io"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/skloese/claimfreq/dataset"
	"github.com/skloese/claimfreq/pkg/errors"
)

const liftBuckets = 10

// LiftBucket is one exposure-weighted decile of the held-out set, rows
// sorted by ascending predicted rate.
type LiftBucket struct {
	Bucket        int
	Exposure      float64
	ObservedRate  float64
	PredictedRate float64
}

// DecileLift buckets held-out rows into ten equal-exposure groups by
// ascending predicted rate and compares observed against predicted average
// rate per bucket. A well-ordered model shows monotonically increasing rates
// with clear separation between the first and last bucket.
//
// Rows whose cumulative exposure exactly reaches the total are forced into
// the last bucket, so there is never an eleventh bucket.
func DecileLift(pred, actual, exposure []float64) ([]LiftBucket, error) {
	n := len(pred)
	if n == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "DecileLift")
	}
	if len(actual) != n {
		return nil, errors.NewDimensionError("DecileLift", n, len(actual), 0)
	}
	if len(exposure) != n {
		return nil, errors.NewDimensionError("DecileLift", n, len(exposure), 0)
	}

	total, err := stats.Sum(stats.Float64Data(exposure))
	if err != nil {
		return nil, errors.Wrap(err, "total exposure")
	}
	if total <= 0 {
		return nil, errors.NewValueError("DecileLift", "total exposure must be positive")
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return pred[order[a]] < pred[order[b]]
	})

	type sums struct {
		exposure float64
		actual   float64
		pred     float64
	}
	buckets := make([]sums, liftBuckets)
	width := total / liftBuckets
	cum := 0.0
	for _, i := range order {
		cum += exposure[i]
		b := int(cum / width)
		if cum == total || b >= liftBuckets {
			// The row reaching the full cumulative exposure belongs to the
			// last bucket; float drift must not open an 11th one.
			b = liftBuckets - 1
		} else if cum == float64(b)*width {
			// A row landing exactly on a boundary closes the lower bucket.
			b--
		}
		buckets[b].exposure += exposure[i]
		buckets[b].actual += actual[i]
		buckets[b].pred += pred[i] * exposure[i]
	}

	out := make([]LiftBucket, 0, liftBuckets)
	for b, s := range buckets {
		if s.exposure == 0 {
			continue
		}
		out = append(out, LiftBucket{
			Bucket:        b + 1,
			Exposure:      s.exposure,
			ObservedRate:  s.actual / s.exposure,
			PredictedRate: s.pred / s.exposure,
		})
	}
	return out, nil
}

// PlotLift renders the decile lift chart: observed and predicted average
// rate per bucket.
func PlotLift(buckets []LiftBucket, path string) error {
	if len(buckets) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "PlotLift")
	}

	observed := make(plotter.XYs, len(buckets))
	predicted := make(plotter.XYs, len(buckets))
	for i, b := range buckets {
		observed[i] = plotter.XY{X: float64(b.Bucket), Y: b.ObservedRate}
		predicted[i] = plotter.XY{X: float64(b.Bucket), Y: b.PredictedRate}
	}

	p := newPlot("Decile lift", "prediction decile (ascending)", "claim frequency")
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
	p.Legend.Left = true

	return savePlot(p, path)
}

// WriteLiftCSV emits the lift buckets as an audit artifact next to the plot.
func WriteLiftCSV(w io.Writer, buckets []LiftBucket) error {
	table, err := dataset.NewTable([]string{"bucket", "exposure", "observed_rate", "predicted_rate"})
	if err != nil {
		return err
	}
	for _, b := range buckets {
		if err := table.Append([]float64{float64(b.Bucket), b.Exposure, b.ObservedRate, b.PredictedRate}); err != nil {
			return err
		}
	}
	return table.WriteCSV(w)
}
