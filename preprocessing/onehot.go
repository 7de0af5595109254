// Package preprocessing converts assembled policy terms into the numeric
// feature table consumed by the matrix builder.
package preprocessing

import (
	"sort"

	"github.com/YuminosukeSato/scigo/core/model"

	"github.com/skloese/claimfreq/dataset"
	"github.com/skloese/claimfreq/pkg/errors"
	"github.com/skloese/claimfreq/pkg/log"
)

// CategoricalField declares one categorical policy field together with its
// reference level. The reference level's indicator column is dropped from
// the encoding (dummy-variable trap); a row of that level carries all-zero
// indicators for the field. Making the choice explicit per field keeps the
// interpretation of importances and dependence curves honest.
type CategoricalField struct {
	Name      string
	Reference string
}

// OneHotEncoder expands the declared categorical fields into indicator
// columns named <field>_<level>. Levels are collected at Fit time and sorted,
// so column names and order are identical for every Transform call on the
// fitted encoder, which the trained model depends on.
//
// Transform also filters rows with a negative claim amount; those are
// data-entry invalidities, not modelled.
type OneHotEncoder struct {
	model.BaseEstimator

	fields []CategoricalField
	levels map[string][]string
}

// NewOneHotEncoder creates an encoder for the declared fields.
func NewOneHotEncoder(fields ...CategoricalField) *OneHotEncoder {
	return &OneHotEncoder{fields: fields}
}

// Fit collects the observed category levels per declared field and validates
// that every declared reference level was actually observed.
func (e *OneHotEncoder) Fit(terms []dataset.Term) error {
	if len(terms) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "OneHotEncoder.Fit")
	}

	levels := make(map[string][]string, len(e.fields))
	for _, f := range e.fields {
		seen := make(map[string]struct{})
		for _, t := range terms {
			v, ok := t.Categorical(f.Name)
			if !ok {
				return errors.NewValueError("OneHotEncoder.Fit", "unknown categorical field "+f.Name)
			}
			seen[v] = struct{}{}
		}
		if _, ok := seen[f.Reference]; !ok {
			return errors.NewValueError("OneHotEncoder.Fit",
				"reference level "+f.Reference+" not observed for field "+f.Name)
		}
		fieldLevels := make([]string, 0, len(seen))
		for v := range seen {
			fieldLevels = append(fieldLevels, v)
		}
		sort.Strings(fieldLevels)
		levels[f.Name] = fieldLevels
	}

	e.levels = levels
	e.SetFitted()
	return nil
}

// Levels returns the observed levels of a fitted field, reference included.
func (e *OneHotEncoder) Levels(field string) []string {
	return append([]string(nil), e.levels[field]...)
}

// IndicatorColumns returns the indicator column names the encoder emits, in
// output order: declared field order, levels sorted, reference level absent.
func (e *OneHotEncoder) IndicatorColumns() []string {
	var cols []string
	for _, f := range e.fields {
		for _, lv := range e.levels[f.Name] {
			if lv == f.Reference {
				continue
			}
			cols = append(cols, f.Name+"_"+lv)
		}
	}
	return cols
}

// columnNames is the full output schema of Transform.
func (e *OneHotEncoder) columnNames() []string {
	names := []string{"client", "year"}
	names = append(names, dataset.NumericFields()...)
	names = append(names, e.IndicatorColumns()...)
	names = append(names, "exposure", "claim_count", "claim_amount")
	return names
}

// Transform encodes terms into a numeric table. The second return value
// holds the retained terms aligned row-for-row with the table, for reports
// that group by raw (pre-encoding) field values. A level not seen at Fit
// time is an error.
func (e *OneHotEncoder) Transform(terms []dataset.Term) (*dataset.Table, []dataset.Term, error) {
	if !e.IsFitted() {
		return nil, nil, errors.NewNotFittedError("OneHotEncoder", "Transform")
	}

	table, err := dataset.NewTable(e.columnNames())
	if err != nil {
		return nil, nil, err
	}

	kept := make([]dataset.Term, 0, len(terms))
	dropped := 0
	numerics := dataset.NumericFields()
	row := make([]float64, table.NumCols())
	for _, t := range terms {
		if t.ClaimAmount < 0 {
			dropped++
			continue
		}

		row = row[:0]
		row = append(row, float64(t.ClientID), float64(t.Year))
		for _, f := range numerics {
			v, _ := t.Numeric(f)
			row = append(row, v)
		}
		for _, f := range e.fields {
			value, _ := t.Categorical(f.Name)
			if !contains(e.levels[f.Name], value) {
				return nil, nil, errors.NewValueError("OneHotEncoder.Transform",
					"unseen level "+value+" for field "+f.Name)
			}
			for _, lv := range e.levels[f.Name] {
				if lv == f.Reference {
					continue
				}
				if value == lv {
					row = append(row, 1)
				} else {
					row = append(row, 0)
				}
			}
		}
		row = append(row, t.Exposure, t.ClaimCount, t.ClaimAmount)

		if err := table.Append(row); err != nil {
			return nil, nil, err
		}
		kept = append(kept, t)
	}

	log.Stage("encode").Info().
		Int(log.RowsKey, table.NumRows()).
		Int(log.DroppedKey, dropped).
		Int(log.FeaturesKey, len(numerics)+len(e.IndicatorColumns())).
		Msg("encoded terms")
	return table, kept, nil
}

func contains(levels []string, v string) bool {
	for _, lv := range levels {
		if lv == v {
			return true
		}
	}
	return false
}
