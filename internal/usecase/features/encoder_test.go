package features

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
	"github.com/kailas-cloud/cardiofeat/internal/domain/universe"
)

func chestPainUniverse() universe.Universe {
	return universe.MustNew("test", universe.Entry{Column: "chest_pain", Codes: []int{1, 2, 3, 4}})
}

func TestEncode_FullIndicatorSetForSingleRow(t *testing.T) {
	raw := mustTable(t, []string{"chest_pain", "age"}, [][]float64{{2, 50}})

	out, err := NewEncoder(nil).Encode(raw, chestPainUniverse())
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"age", "chest_pain_1", "chest_pain_2", "chest_pain_3", "chest_pain_4"},
		out.Columns())
	assert.Equal(t, []float64{50, 0, 1, 0, 0}, out.Row(0))
}

func TestEncode_UnknownCodeYieldsZeroRowAndWarning(t *testing.T) {
	raw := mustTable(t, []string{"chest_pain"}, [][]float64{{7}, {1}, {7}})
	obs := &recordingObserver{}

	out, err := NewEncoder(obs).Encode(raw, chestPainUniverse())
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0, 0, 0}, out.Row(0))
	assert.Equal(t, []float64{1, 0, 0, 0}, out.Row(1))
	require.Len(t, obs.warnings, 1)
	assert.Equal(t, "chest_pain", obs.warnings[0].Column)
	assert.InDelta(t, 7, obs.warnings[0].Code, 0)
	assert.Equal(t, 2, obs.warnings[0].Rows)
}

func TestEncode_MissingCategoricalColumn(t *testing.T) {
	raw := mustTable(t, []string{"age"}, [][]float64{{40}})

	_, err := NewEncoder(nil).Encode(raw, chestPainUniverse())
	assert.True(t, errors.Is(err, domain.ErrInvalidRecord))
}

func TestEncode_InputUnchanged(t *testing.T) {
	raw := mustTable(t, []string{"chest_pain"}, [][]float64{{3}})

	_, err := NewEncoder(nil).Encode(raw, chestPainUniverse())
	require.NoError(t, err)
	assert.Equal(t, []string{"chest_pain"}, raw.Columns())
}
