package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/skloese/claimfreq/pkg/errors"
)

// Table is an ordered collection of named float64 columns. It is the
// interchange format between the encoder, the matrix builder and the
// reporting artifacts. Column order is fixed at construction; the trained
// model binds feature identity to that order.
type Table struct {
	names []string
	index map[string]int
	cols  [][]float64
}

// NewTable creates an empty table with the given column names.
func NewTable(names []string) (*Table, error) {
	index := make(map[string]int, len(names))
	for i, n := range names {
		if _, dup := index[n]; dup {
			return nil, errors.NewValueError("NewTable", "duplicate column "+n)
		}
		index[n] = i
	}
	t := &Table{
		names: append([]string(nil), names...),
		index: index,
		cols:  make([][]float64, len(names)),
	}
	return t, nil
}

// Append adds one row. The row length must match the column count.
func (t *Table) Append(row []float64) error {
	if len(row) != len(t.names) {
		return errors.NewDimensionError("Table.Append", len(t.names), len(row), 1)
	}
	for i, v := range row {
		t.cols[i] = append(t.cols[i], v)
	}
	return nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0])
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.names)
}

// Names returns a copy of the ordered column names.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// Has reports whether the table has the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the values of the named column. The returned slice is the
// table's backing storage and must not be modified.
func (t *Table) Column(name string) ([]float64, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.NewValueError("Table.Column", "no such column "+name)
	}
	return t.cols[i], nil
}

// Row copies row i into a new slice in column order.
func (t *Table) Row(i int) []float64 {
	row := make([]float64, len(t.cols))
	for j := range t.cols {
		row[j] = t.cols[j][i]
	}
	return row
}

// Select returns a new table containing the named columns in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	out, err := NewTable(names)
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		i, ok := t.index[n]
		if !ok {
			return nil, errors.NewValueError("Table.Select", "no such column "+n)
		}
		j := out.index[n]
		out.cols[j] = append([]float64(nil), t.cols[i]...)
	}
	return out, nil
}

// Filter returns a new table with the rows for which keep returns true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	out, _ := NewTable(t.names)
	for i := 0; i < t.NumRows(); i++ {
		if keep(i) {
			for j := range t.cols {
				out.cols[j] = append(out.cols[j], t.cols[j][i])
			}
		}
	}
	return out
}

// WriteCSV writes the table with a header row. Values are formatted with
// strconv.FormatFloat 'g' so integers round-trip exactly.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.names); err != nil {
		return errors.Wrap(err, "write header")
	}
	record := make([]string, len(t.names))
	for i := 0; i < t.NumRows(); i++ {
		for j := range t.cols {
			record[j] = strconv.FormatFloat(t.cols[j][i], 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "write row %d", i)
		}
	}
	cw.Flush()
	return cw.Error()
}
