// Package schema holds the frozen reference column list captured at training time.
package schema

import (
	"fmt"
	"slices"
)

// Reference is the authoritative ordered list of feature columns (immutable value object).
type Reference struct {
	columns []string
	index   map[string]int
}

// NewReference validates and creates a Reference. Columns must be non-empty and unique.
func NewReference(columns []string) (Reference, error) {
	if len(columns) == 0 {
		return Reference{}, fmt.Errorf("reference column list is empty")
	}
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if c == "" {
			return Reference{}, fmt.Errorf("reference column %d has empty name", i)
		}
		if _, dup := index[c]; dup {
			return Reference{}, fmt.Errorf("duplicate reference column: %s", c)
		}
		index[c] = i
	}
	return Reference{columns: slices.Clone(columns), index: index}, nil
}

// Columns returns the reference columns in order.
func (r Reference) Columns() []string { return slices.Clone(r.columns) }

// Len returns N, the width of every feature vector.
func (r Reference) Len() int { return len(r.columns) }

// IsZero reports whether r was never captured or loaded.
func (r Reference) IsZero() bool { return len(r.columns) == 0 }

// Index returns the position of a column.
func (r Reference) Index(column string) (int, bool) {
	i, ok := r.index[column]
	return i, ok
}

// Equal reports whether both references list the same columns in the same order.
func (r Reference) Equal(o Reference) bool { return slices.Equal(r.columns, o.columns) }
