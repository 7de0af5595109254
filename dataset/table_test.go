package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAppendAndAccess(t *testing.T) {
	tbl, err := NewTable([]string{"a", "b"})
	require.NoError(t, err)
	require.NoError(t, tbl.Append([]float64{1, 2}))
	require.NoError(t, tbl.Append([]float64{3, 4}))

	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumCols())
	assert.Equal(t, []string{"a", "b"}, tbl.Names())
	assert.True(t, tbl.Has("a"))
	assert.False(t, tbl.Has("c"))

	col, err := tbl.Column("b")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, col)
	assert.Equal(t, []float64{3, 4}, tbl.Row(1))

	_, err = tbl.Column("missing")
	assert.Error(t, err)
}

func TestTableRejectsBadShapes(t *testing.T) {
	_, err := NewTable([]string{"a", "a"})
	assert.Error(t, err, "duplicate column names")

	tbl, err := NewTable([]string{"a", "b"})
	require.NoError(t, err)
	assert.Error(t, tbl.Append([]float64{1}))
	assert.Error(t, tbl.Append([]float64{1, 2, 3}))
}

func TestTableSelectAndFilter(t *testing.T) {
	tbl, err := NewTable([]string{"a", "b", "c"})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		require.NoError(t, tbl.Append([]float64{float64(i), float64(i * 10), float64(i * 100)}))
	}

	sel, err := tbl.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, sel.Names())
	c, err := sel.Column("c")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 100, 200, 300}, c)

	_, err = tbl.Select("nope")
	assert.Error(t, err)

	even := tbl.Filter(func(row int) bool { return row%2 == 0 })
	assert.Equal(t, 2, even.NumRows())
	a, err := even.Column("a")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2}, a)
}

func TestTableWriteCSV(t *testing.T) {
	tbl, err := NewTable([]string{"x", "y"})
	require.NoError(t, err)
	require.NoError(t, tbl.Append([]float64{1, 0.5}))
	require.NoError(t, tbl.Append([]float64{2, 15000}))

	var sb strings.Builder
	require.NoError(t, tbl.WriteCSV(&sb))
	assert.Equal(t, "x,y\n1,0.5\n2,15000\n", sb.String())
}
