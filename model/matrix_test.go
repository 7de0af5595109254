package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skloese/claimfreq/dataset"
)

func encodedTable(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.NewTable([]string{
		"client", "year", "bonus", "driver_age", "coverage_full",
		"exposure", "claim_count", "claim_amount",
	})
	require.NoError(t, err)
	require.NoError(t, tbl.Append([]float64{1, 2017, 0.9, 40, 0, 1, 0, 0}))
	require.NoError(t, tbl.Append([]float64{2, 2017, 1.1, 25, 1, 1, 2, 700}))
	return tbl
}

func TestMatricesExcludesIdentifiersAndTargets(t *testing.T) {
	X, y, names, err := Matrices(encodedTable(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"bonus", "driver_age", "coverage_full"}, names)

	rows, cols := X.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 0.9, X.At(0, 0))
	assert.Equal(t, 25.0, X.At(1, 1))
	assert.Equal(t, 1.0, X.At(1, 2))

	require.Equal(t, 2, y.Len())
	assert.Equal(t, 0.0, y.AtVec(0))
	assert.Equal(t, 2.0, y.AtVec(1))
}

func TestMatricesStableAcrossPartitions(t *testing.T) {
	tbl := encodedTable(t)
	first := tbl.Filter(func(row int) bool { return row == 0 })
	second := tbl.Filter(func(row int) bool { return row == 1 })

	_, _, names1, err := Matrices(first)
	require.NoError(t, err)
	_, _, names2, err := Matrices(second)
	require.NoError(t, err)
	assert.Equal(t, names1, names2)
}

func TestMatricesEmptyTable(t *testing.T) {
	tbl, err := dataset.NewTable([]string{"claim_count"})
	require.NoError(t, err)
	_, _, _, err = Matrices(tbl)
	assert.Error(t, err)
}
