package dataset

import (
	"github.com/montanaflynn/stats"

	"github.com/skloese/claimfreq/pkg/errors"
	"github.com/skloese/claimfreq/pkg/log"
)

// FieldSummary describes the distribution of one numeric policy field.
type FieldSummary struct {
	Field  string
	Count  int
	Mean   float64
	Median float64
	Min    float64
	Max    float64
}

// Summarize computes distribution summaries for every numeric policy field
// plus the claim count. The summaries give visibility into what the silent
// data-quality filters left behind.
func Summarize(terms []Term) ([]FieldSummary, error) {
	if len(terms) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "Summarize")
	}

	fields := append(NumericFields(), "claim_count")
	summaries := make([]FieldSummary, 0, len(fields))
	values := make([]float64, len(terms))
	for _, field := range fields {
		for i, t := range terms {
			if field == "claim_count" {
				values[i] = t.ClaimCount
			} else {
				values[i], _ = t.Numeric(field)
			}
		}
		data := stats.Float64Data(values)
		mean, err := stats.Mean(data)
		if err != nil {
			return nil, errors.Wrapf(err, "mean of %s", field)
		}
		median, err := stats.Median(data)
		if err != nil {
			return nil, errors.Wrapf(err, "median of %s", field)
		}
		min, err := stats.Min(data)
		if err != nil {
			return nil, errors.Wrapf(err, "min of %s", field)
		}
		max, err := stats.Max(data)
		if err != nil {
			return nil, errors.Wrapf(err, "max of %s", field)
		}
		summaries = append(summaries, FieldSummary{
			Field:  field,
			Count:  len(terms),
			Mean:   mean,
			Median: median,
			Min:    min,
			Max:    max,
		})
	}
	return summaries, nil
}

// LogSummaries writes the field summaries to the structured run log.
func LogSummaries(summaries []FieldSummary) {
	logger := log.Stage("summary")
	for _, s := range summaries {
		logger.Info().
			Str("field", s.Field).
			Int("count", s.Count).
			Float64("mean", s.Mean).
			Float64("median", s.Median).
			Float64("min", s.Min).
			Float64("max", s.Max).
			Msg("field summary")
	}
}
