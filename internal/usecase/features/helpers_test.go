package features

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
	"github.com/kailas-cloud/cardiofeat/internal/domain/normalization"
	"github.com/kailas-cloud/cardiofeat/internal/domain/schema"
	"github.com/kailas-cloud/cardiofeat/internal/domain/table"
)

// --- Mocks ---

type recordingObserver struct {
	warnings []domain.UnrecognizedCategoryWarning
	filled   []string
	dropped  []string
}

func (o *recordingObserver) UnrecognizedCategory(w domain.UnrecognizedCategoryWarning) {
	o.warnings = append(o.warnings, w)
}
func (o *recordingObserver) ColumnFilled(c string)  { o.filled = append(o.filled, c) }
func (o *recordingObserver) ColumnDropped(c string) { o.dropped = append(o.dropped, c) }

type memorySink struct {
	params normalization.Params
	ref    schema.Reference
	calls  int
	err    error
}

func (s *memorySink) PutFeatures(_ context.Context, p normalization.Params, r schema.Reference) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.params, s.ref = p, r
	return nil
}

func mustTable(t *testing.T, names []string, rows [][]float64) table.Table {
	t.Helper()
	tbl, err := table.New(names, rows)
	require.NoError(t, err)
	return tbl
}

func column(t *testing.T, tbl table.Table, name string) []float64 {
	t.Helper()
	v, ok := tbl.Column(name)
	require.Truef(t, ok, "column %s missing from %v", name, tbl.Columns())
	return v
}
