package features

import (
	"fmt"
	"math"
	"slices"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
	"github.com/kailas-cloud/cardiofeat/internal/domain/table"
	"github.com/kailas-cloud/cardiofeat/internal/domain/universe"
)

// Encoder expands categorical columns into indicator columns over a fixed universe.
type Encoder struct {
	observer Observer
}

// NewEncoder creates an Encoder. obs may be nil.
func NewEncoder(obs Observer) *Encoder {
	return &Encoder{observer: observerOrNop(obs)}
}

// Encode replaces every universe column of t with one indicator column per declared code,
// appended in universe order and named <column>_<code>. Codes absent from the batch yield
// all-zero indicators; codes outside the universe yield none and are reported to the observer.
func (e *Encoder) Encode(t table.Table, u universe.Universe) (table.Table, error) {
	out := t
	for _, entry := range u.Entries() {
		values, ok := t.Column(entry.Column)
		if !ok {
			return table.Table{}, fmt.Errorf("%w: missing categorical column %s",
				domain.ErrInvalidRecord, entry.Column)
		}

		position := make(map[float64]int, len(entry.Codes))
		for k, code := range entry.Codes {
			position[float64(code)] = k
		}
		indicators := make([][]float64, len(entry.Codes))
		for k := range indicators {
			indicators[k] = make([]float64, len(values))
		}

		unknown := make(map[float64]int)
		nanRows := 0
		for i, v := range values {
			if math.IsNaN(v) {
				nanRows++
				continue
			}
			k, known := position[v]
			if !known {
				unknown[v]++
				continue
			}
			indicators[k][i] = 1
		}

		out = out.Without(entry.Column)
		for k, code := range entry.Codes {
			var err error
			out, err = out.With(universe.IndicatorName(entry.Column, code), indicators[k])
			if err != nil {
				return table.Table{}, fmt.Errorf("encode %s: %w", entry.Column, err)
			}
		}

		e.report(entry.Column, unknown, nanRows)
	}
	return out, nil
}

// report emits warnings in ascending code order so repeated calls log identically.
func (e *Encoder) report(column string, unknown map[float64]int, nanRows int) {
	codes := make([]float64, 0, len(unknown))
	for c := range unknown {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	for _, c := range codes {
		e.observer.UnrecognizedCategory(domain.UnrecognizedCategoryWarning{
			Column: column, Code: c, Rows: unknown[c],
		})
	}
	if nanRows > 0 {
		e.observer.UnrecognizedCategory(domain.UnrecognizedCategoryWarning{
			Column: column, Code: math.NaN(), Rows: nanRows,
		})
	}
}
