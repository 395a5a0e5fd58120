// Package table holds the in-memory tabular value passed through the feature pipeline.
package table

import (
	"fmt"
	"slices"
)

// Table is an immutable, column-major numeric table with named, ordered columns.
// Every operation returns a new Table; column slices are never mutated after construction.
type Table struct {
	names []string
	index map[string]int
	cols  [][]float64
	rows  int
}

// New builds a Table from row-major data. Every row must have len(names) values.
func New(names []string, rows [][]float64) (Table, error) {
	cols := make([][]float64, len(names))
	for j := range cols {
		cols[j] = make([]float64, len(rows))
	}
	for i, row := range rows {
		if len(row) != len(names) {
			return Table{}, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(names))
		}
		for j, v := range row {
			cols[j][i] = v
		}
	}
	return build(names, cols, len(rows))
}

// FromColumns builds a Table from column-major data. All columns must have equal length.
func FromColumns(names []string, cols [][]float64) (Table, error) {
	if len(names) != len(cols) {
		return Table{}, fmt.Errorf("%d names for %d columns", len(names), len(cols))
	}
	rows := 0
	if len(cols) > 0 {
		rows = len(cols[0])
	}
	copied := make([][]float64, len(cols))
	for j, c := range cols {
		if len(c) != rows {
			return Table{}, fmt.Errorf("column %q has %d values, want %d", names[j], len(c), rows)
		}
		copied[j] = slices.Clone(c)
	}
	return build(names, copied, rows)
}

func build(names []string, cols [][]float64, rows int) (Table, error) {
	index := make(map[string]int, len(names))
	for j, n := range names {
		if n == "" {
			return Table{}, fmt.Errorf("column %d has empty name", j)
		}
		if _, dup := index[n]; dup {
			return Table{}, fmt.Errorf("duplicate column name: %s", n)
		}
		index[n] = j
	}
	return Table{names: slices.Clone(names), index: index, cols: cols, rows: rows}, nil
}

// Columns returns the ordered column names.
func (t Table) Columns() []string { return slices.Clone(t.names) }

// NumRows returns the number of rows.
func (t Table) NumRows() int { return t.rows }

// NumCols returns the number of columns.
func (t Table) NumCols() int { return len(t.names) }

// Has reports whether the table has a column with the given name.
func (t Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns a copy of the named column's values.
func (t Table) Column(name string) ([]float64, bool) {
	j, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(t.cols[j]), true
}

// Value returns a single cell.
func (t Table) Value(row int, name string) (float64, bool) {
	j, ok := t.index[name]
	if !ok || row < 0 || row >= t.rows {
		return 0, false
	}
	return t.cols[j][row], true
}

// Row returns a copy of row i in column order.
func (t Table) Row(i int) []float64 {
	out := make([]float64, len(t.cols))
	for j, c := range t.cols {
		out[j] = c[i]
	}
	return out
}

// Rows returns the table as a row-major matrix, the shape classifiers consume.
func (t Table) Rows() [][]float64 {
	out := make([][]float64, t.rows)
	for i := range out {
		out[i] = t.Row(i)
	}
	return out
}

// With returns a table where the named column is replaced in place, or appended if absent.
func (t Table) With(name string, values []float64) (Table, error) {
	if len(t.names) > 0 && len(values) != t.rows {
		return Table{}, fmt.Errorf("column %q has %d values, want %d", name, len(values), t.rows)
	}
	names := slices.Clone(t.names)
	cols := slices.Clone(t.cols)
	if j, ok := t.index[name]; ok {
		cols[j] = slices.Clone(values)
	} else {
		names = append(names, name)
		cols = append(cols, slices.Clone(values))
	}
	return build(names, cols, len(values))
}

// Without returns a table without the named columns. Unknown names are ignored.
func (t Table) Without(names ...string) Table {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	keptNames := make([]string, 0, len(t.names))
	keptCols := make([][]float64, 0, len(t.cols))
	for j, n := range t.names {
		if _, ok := drop[n]; ok {
			continue
		}
		keptNames = append(keptNames, n)
		keptCols = append(keptCols, t.cols[j])
	}
	out, _ := build(keptNames, keptCols, t.rows) // names are a subset of valid names
	return out
}

// Select returns a table with exactly the named columns in the given order.
func (t Table) Select(names ...string) (Table, error) {
	cols := make([][]float64, len(names))
	for k, n := range names {
		j, ok := t.index[n]
		if !ok {
			return Table{}, fmt.Errorf("unknown column: %s", n)
		}
		cols[k] = t.cols[j]
	}
	return build(names, cols, t.rows)
}
