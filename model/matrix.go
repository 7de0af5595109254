// Package model builds the label/feature matrices, runs the hyperparameter
// grid search and fits the final boosted ensemble. Boosting itself is
// delegated to the scigo LightGBM implementation with a Poisson objective.
package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/skloese/claimfreq/dataset"
	"github.com/skloese/claimfreq/pkg/errors"
)

// Columns of the encoded table that are not model features. The identifiers
// key the rows, exposure is the offset (constant 1.0 here) and the claim
// columns are targets.
var nonFeature = map[string]bool{
	"client":       true,
	"year":         true,
	"exposure":     true,
	"claim_count":  true,
	"claim_amount": true,
}

// Matrices converts an encoded table into the feature matrix and label
// vector the boosting library consumes. Feature columns keep the table's
// column order; the trained model binds feature identity to that order, so
// train and test tables produced by the same encoder yield identical name
// lists.
func Matrices(t *dataset.Table) (X *mat.Dense, y *mat.VecDense, names []string, err error) {
	if t.NumRows() == 0 {
		return nil, nil, nil, errors.Wrap(errors.ErrEmptyData, "Matrices")
	}

	for _, n := range t.Names() {
		if !nonFeature[n] {
			names = append(names, n)
		}
	}

	rows := t.NumRows()
	X = mat.NewDense(rows, len(names), nil)
	for j, n := range names {
		col, err := t.Column(n)
		if err != nil {
			return nil, nil, nil, err
		}
		for i := 0; i < rows; i++ {
			X.Set(i, j, col[i])
		}
	}

	counts, err := t.Column("claim_count")
	if err != nil {
		return nil, nil, nil, err
	}
	y = mat.NewVecDense(rows, append([]float64(nil), counts...))
	return X, y, names, nil
}
