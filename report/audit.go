package report

import (
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/skloese/claimfreq/dataset"
	"github.com/skloese/claimfreq/model"
	"github.com/skloese/claimfreq/pkg/errors"
	"github.com/skloese/claimfreq/pkg/log"
)

// PredictionsAudit enumerates every distinct observed feature vector across
// the given matrices together with its predicted rate, and writes the table
// as CSV. The artifact documents the rating algorithm's behaviour over the
// observed domain for external audit; it deliberately covers only observed
// combinations, not the Cartesian space of all feature values.
func PredictionsAudit(fm *model.FittedModel, w io.Writer, matrices ...*mat.Dense) error {
	if len(matrices) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "PredictionsAudit")
	}

	cols := len(fm.FeatureNames)
	seen := make(map[string]struct{})
	var distinct [][]float64
	var key strings.Builder
	for _, X := range matrices {
		rows, xCols := X.Dims()
		if xCols != cols {
			return errors.NewDimensionError("PredictionsAudit", cols, xCols, 1)
		}
		for i := 0; i < rows; i++ {
			row := mat.Row(nil, i, X)
			key.Reset()
			for _, v := range row {
				key.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
				key.WriteByte('|')
			}
			k := key.String()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			distinct = append(distinct, row)
		}
	}

	unique := mat.NewDense(len(distinct), cols, nil)
	for i, row := range distinct {
		unique.SetRow(i, row)
	}
	pred, err := fm.Predict(unique)
	if err != nil {
		return err
	}

	names := append(append([]string(nil), fm.FeatureNames...), "predicted_rate")
	table, err := dataset.NewTable(names)
	if err != nil {
		return err
	}
	record := make([]float64, cols+1)
	for i, row := range distinct {
		copy(record, row)
		record[cols] = pred.AtVec(i)
		if err := table.Append(record); err != nil {
			return err
		}
	}

	log.Stage("report").Info().
		Int(log.RowsKey, len(distinct)).
		Msg("wrote predictions audit table")
	return table.WriteCSV(w)
}
