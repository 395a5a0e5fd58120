package features

import (
	"fmt"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
	"github.com/kailas-cloud/cardiofeat/internal/domain/schema"
	"github.com/kailas-cloud/cardiofeat/internal/domain/table"
)

// Aligner reconciles a batch's columns with the frozen reference column list.
type Aligner struct {
	observer Observer
	strict   bool
}

// NewAligner creates an Aligner. In strict mode any difference from the reference is
// rejected with a SchemaMismatchError instead of being zero-filled or dropped.
func NewAligner(obs Observer, strict bool) *Aligner {
	return &Aligner{observer: observerOrNop(obs), strict: strict}
}

// Capture returns the reference list a training batch produces: its columns, in order.
func (a *Aligner) Capture(t table.Table) (schema.Reference, error) {
	ref, err := schema.NewReference(t.Columns())
	if err != nil {
		return schema.Reference{}, fmt.Errorf("capture reference: %w", err)
	}
	return ref, nil
}

// Align reindexes t to exactly the reference columns in reference order.
// Pass one diffs the batch against the reference; pass two builds the output,
// zero-filling missing columns and leaving extras behind.
func (a *Aligner) Align(t table.Table, ref schema.Reference) (table.Table, error) {
	if ref.IsZero() {
		return table.Table{}, domain.NewMissingConfiguration(domain.ArtifactReference)
	}

	var missing, extra []string
	for _, c := range ref.Columns() {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	for _, c := range t.Columns() {
		if _, ok := ref.Index(c); !ok {
			extra = append(extra, c)
		}
	}
	if a.strict && (len(missing) > 0 || len(extra) > 0) {
		return table.Table{}, &domain.SchemaMismatchError{Missing: missing, Extra: extra}
	}

	names := ref.Columns()
	cols := make([][]float64, len(names))
	for j, c := range names {
		if values, ok := t.Column(c); ok {
			cols[j] = values
			continue
		}
		cols[j] = make([]float64, t.NumRows())
	}

	out, err := table.FromColumns(names, cols)
	if err != nil {
		return table.Table{}, fmt.Errorf("align: %w", err)
	}

	for _, c := range missing {
		a.observer.ColumnFilled(c)
	}
	for _, c := range extra {
		a.observer.ColumnDropped(c)
	}
	return out, nil
}
