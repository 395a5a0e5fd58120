// Package normalization holds the persisted standardization parameters.
package normalization

import (
	"fmt"
	"math"
	"slices"
)

// Stat is the mean and scale (population standard deviation) of one numeric column.
type Stat struct {
	Mean  float64
	Scale float64
}

// Apply standardizes x as (x - mean) / scale.
func (s Stat) Apply(x float64) float64 {
	return (x - s.Mean) / s.Scale
}

// Params maps numeric columns to their training-time statistics (immutable value object).
type Params struct {
	columns []string
	stats   map[string]Stat
}

// New validates and creates Params. columns and stats are parallel slices.
// Means must be finite; scales must be finite and strictly positive.
func New(columns []string, stats []Stat) (Params, error) {
	if len(columns) != len(stats) {
		return Params{}, fmt.Errorf("%d columns for %d stats", len(columns), len(stats))
	}
	m := make(map[string]Stat, len(columns))
	for i, c := range columns {
		if c == "" {
			return Params{}, fmt.Errorf("column %d has empty name", i)
		}
		if _, dup := m[c]; dup {
			return Params{}, fmt.Errorf("duplicate column: %s", c)
		}
		s := stats[i]
		if math.IsNaN(s.Mean) || math.IsInf(s.Mean, 0) {
			return Params{}, fmt.Errorf("column %s: mean must be finite", c)
		}
		if !(s.Scale > 0) || math.IsInf(s.Scale, 0) {
			return Params{}, fmt.Errorf("column %s: scale must be positive and finite, got %v", c, s.Scale)
		}
		m[c] = s
	}
	return Params{columns: slices.Clone(columns), stats: m}, nil
}

// Columns returns the numeric columns in persisted order.
func (p Params) Columns() []string { return slices.Clone(p.columns) }

// Len returns the number of columns.
func (p Params) Len() int { return len(p.columns) }

// IsZero reports whether p carries no parameters (never fitted or loaded).
func (p Params) IsZero() bool { return len(p.columns) == 0 }

// Get returns the statistics for a column.
func (p Params) Get(column string) (Stat, bool) {
	s, ok := p.stats[column]
	return s, ok
}
