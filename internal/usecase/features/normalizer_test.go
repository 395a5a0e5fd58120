package features

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
	"github.com/kailas-cloud/cardiofeat/internal/domain/normalization"
)

func TestFitTransform_PopulationStatistics(t *testing.T) {
	raw := mustTable(t, []string{"cholesterol"}, [][]float64{{200}, {300}})

	out, params, err := NewNormalizer().FitTransform(raw, []string{"cholesterol"})
	require.NoError(t, err)

	s, ok := params.Get("cholesterol")
	require.True(t, ok)
	assert.InDelta(t, 250, s.Mean, 1e-9)
	assert.InDelta(t, 50, s.Scale, 1e-9)
	assert.InDeltaSlice(t, []float64{-1, 1}, column(t, out, "cholesterol"), 1e-9)
}

func TestFitTransform_ConstantColumnScaleOne(t *testing.T) {
	raw := mustTable(t, []string{"oldpeak"}, [][]float64{{2}, {2}, {2}})

	out, params, err := NewNormalizer().FitTransform(raw, []string{"oldpeak"})
	require.NoError(t, err)

	s, _ := params.Get("oldpeak")
	assert.InDelta(t, 1, s.Scale, 0)
	assert.Equal(t, []float64{0, 0, 0}, column(t, out, "oldpeak"))
}

func TestFitTransform_EmptyTable(t *testing.T) {
	raw := mustTable(t, []string{"age"}, nil)

	_, _, err := NewNormalizer().FitTransform(raw, []string{"age"})
	assert.True(t, errors.Is(err, domain.ErrInvalidRecord))
}

func TestTransform_RoundTrip(t *testing.T) {
	values := [][]float64{{41}, {55}, {63}, {70}}
	raw := mustTable(t, []string{"age"}, values)
	n := NewNormalizer()

	out, params, err := n.FitTransform(raw, []string{"age"})
	require.NoError(t, err)

	s, _ := params.Get("age")
	for i, z := range column(t, out, "age") {
		assert.InDelta(t, values[i][0], z*s.Scale+s.Mean, 1e-9)
	}
}

func TestTransform_UsesSuppliedParamsOnly(t *testing.T) {
	params, err := normalization.New([]string{"age"}, []normalization.Stat{{Mean: 50, Scale: 10}})
	require.NoError(t, err)
	raw := mustTable(t, []string{"age"}, [][]float64{{1000}})

	out, err := NewNormalizer().Transform(raw, []string{"age"}, params)
	require.NoError(t, err)
	assert.InDelta(t, 95, out.Row(0)[0], 1e-9)
}

func TestTransform_MissingParams(t *testing.T) {
	raw := mustTable(t, []string{"age"}, [][]float64{{40}})

	_, err := NewNormalizer().Transform(raw, []string{"age"}, normalization.Params{})

	var mc *domain.MissingConfigurationError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, domain.ArtifactNormalization, mc.Artifact)
}

func TestTransform_ColumnWithoutParams(t *testing.T) {
	params, err := normalization.New([]string{"age"}, []normalization.Stat{{Mean: 50, Scale: 10}})
	require.NoError(t, err)
	raw := mustTable(t, []string{"age", "oldpeak"}, [][]float64{{40, 1}})

	_, err = NewNormalizer().Transform(raw, []string{"age", "oldpeak"}, params)
	assert.True(t, errors.Is(err, domain.ErrMissingConfiguration))
}
