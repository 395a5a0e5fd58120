package features

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
	"github.com/kailas-cloud/cardiofeat/internal/domain/schema"
)

func TestAlign_FillsAndDrops(t *testing.T) {
	ref, err := schema.NewReference([]string{"a", "b", "c"})
	require.NoError(t, err)
	batch := mustTable(t, []string{"c", "x", "a"}, [][]float64{{3, 9, 1}, {6, 9, 4}})
	obs := &recordingObserver{}

	out, err := NewAligner(obs, false).Align(batch, ref)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, out.Columns())
	assert.Equal(t, [][]float64{{1, 0, 3}, {4, 0, 6}}, out.Rows())
	assert.Equal(t, []string{"b"}, obs.filled)
	assert.Equal(t, []string{"x"}, obs.dropped)
}

func TestAlign_Strict(t *testing.T) {
	ref, err := schema.NewReference([]string{"a", "b"})
	require.NoError(t, err)
	batch := mustTable(t, []string{"a", "x"}, [][]float64{{1, 2}})
	obs := &recordingObserver{}

	_, err = NewAligner(obs, true).Align(batch, ref)

	var mismatch *domain.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, []string{"b"}, mismatch.Missing)
	assert.Equal(t, []string{"x"}, mismatch.Extra)
	assert.True(t, errors.Is(err, domain.ErrSchemaMismatch))
	assert.Empty(t, obs.filled)
}

func TestAlign_StrictExactMatch(t *testing.T) {
	ref, err := schema.NewReference([]string{"a", "b"})
	require.NoError(t, err)
	batch := mustTable(t, []string{"b", "a"}, [][]float64{{2, 1}})

	out, err := NewAligner(nil, true).Align(batch, ref)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, out.Row(0))
}

func TestAlign_NoReference(t *testing.T) {
	batch := mustTable(t, []string{"a"}, [][]float64{{1}})

	_, err := NewAligner(nil, false).Align(batch, schema.Reference{})
	assert.True(t, errors.Is(err, domain.ErrMissingConfiguration))
}

func TestCapture_KeepsOrder(t *testing.T) {
	batch := mustTable(t, []string{"z", "a"}, [][]float64{{1, 2}})

	ref, err := NewAligner(nil, false).Capture(batch)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a"}, ref.Columns())
}
