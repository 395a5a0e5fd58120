// Package universe defines the training-time category universe used for indicator expansion.
package universe

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
)

// Entry is the ordered, exhaustive list of codes known for one categorical column.
type Entry struct {
	Column string
	Codes  []int
}

// Universe maps categorical columns to their category codes (immutable value object).
// Entry order defines the order in which indicator columns are emitted.
type Universe struct {
	version string
	entries []Entry
	byName  map[string]int
}

// New validates and creates a Universe.
// Columns must be unique and non-empty; each column needs at least one code, codes unique.
func New(version string, entries ...Entry) (Universe, error) {
	if version == "" {
		return Universe{}, fmt.Errorf("%w: version is required", domain.ErrInvalidUniverse)
	}
	byName := make(map[string]int, len(entries))
	copied := make([]Entry, len(entries))
	for i, e := range entries {
		if e.Column == "" {
			return Universe{}, fmt.Errorf("%w: entry %d has empty column", domain.ErrInvalidUniverse, i)
		}
		if _, dup := byName[e.Column]; dup {
			return Universe{}, fmt.Errorf("%w: duplicate column %s", domain.ErrInvalidUniverse, e.Column)
		}
		if len(e.Codes) == 0 {
			return Universe{}, fmt.Errorf("%w: column %s has no codes", domain.ErrInvalidUniverse, e.Column)
		}
		seen := make(map[int]struct{}, len(e.Codes))
		for _, c := range e.Codes {
			if _, dup := seen[c]; dup {
				return Universe{}, fmt.Errorf("%w: column %s has duplicate code %d",
					domain.ErrInvalidUniverse, e.Column, c)
			}
			seen[c] = struct{}{}
		}
		byName[e.Column] = i
		copied[i] = Entry{Column: e.Column, Codes: slices.Clone(e.Codes)}
	}
	return Universe{version: version, entries: copied, byName: byName}, nil
}

// MustNew is New that panics on error. Intended for compiled-in universes.
func MustNew(version string, entries ...Entry) Universe {
	u, err := New(version, entries...)
	if err != nil {
		panic(err)
	}
	return u
}

// Version returns the universe version tag persisted alongside trained artifacts.
func (u Universe) Version() string { return u.version }

// Columns returns categorical column names in entry order.
func (u Universe) Columns() []string {
	out := make([]string, len(u.entries))
	for i, e := range u.entries {
		out[i] = e.Column
	}
	return out
}

// Entries returns a copy of the universe entries.
func (u Universe) Entries() []Entry {
	out := make([]Entry, len(u.entries))
	for i, e := range u.entries {
		out[i] = Entry{Column: e.Column, Codes: slices.Clone(e.Codes)}
	}
	return out
}

// Codes returns the codes declared for a column.
func (u Universe) Codes(column string) ([]int, bool) {
	i, ok := u.byName[column]
	if !ok {
		return nil, false
	}
	return slices.Clone(u.entries[i].Codes), true
}

// Contains reports whether column is categorical in this universe.
func (u Universe) Contains(column string) bool {
	_, ok := u.byName[column]
	return ok
}

// IndicatorColumns returns every indicator column name the universe expands to, in order.
func (u Universe) IndicatorColumns() []string {
	var out []string
	for _, e := range u.entries {
		for _, c := range e.Codes {
			out = append(out, IndicatorName(e.Column, c))
		}
	}
	return out
}

// IndicatorName returns the stable <column>_<code> indicator column name.
func IndicatorName(column string, code int) string {
	return column + "_" + strconv.Itoa(code)
}
