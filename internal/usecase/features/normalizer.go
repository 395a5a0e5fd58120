package features

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
	"github.com/kailas-cloud/cardiofeat/internal/domain/normalization"
	"github.com/kailas-cloud/cardiofeat/internal/domain/table"
)

// Normalizer standardizes numeric columns as (x - mean) / scale.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer { return &Normalizer{} }

// FitTransform computes per-column mean and population standard deviation over the whole
// training table, then standardizes it. A constant column gets scale 1.
func (n *Normalizer) FitTransform(
	t table.Table, columns []string,
) (table.Table, normalization.Params, error) {
	if t.NumRows() == 0 {
		return table.Table{}, normalization.Params{},
			fmt.Errorf("%w: cannot fit normalization on an empty table", domain.ErrInvalidRecord)
	}

	stats := make([]normalization.Stat, len(columns))
	for i, c := range columns {
		values, ok := t.Column(c)
		if !ok {
			return table.Table{}, normalization.Params{},
				fmt.Errorf("%w: missing numeric column %s", domain.ErrInvalidRecord, c)
		}
		mean, std := stat.PopMeanStdDev(values, nil)
		if std == 0 {
			std = 1
		}
		stats[i] = normalization.Stat{Mean: mean, Scale: std}
	}

	params, err := normalization.New(columns, stats)
	if err != nil {
		return table.Table{}, normalization.Params{}, fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
	}

	out, err := n.Transform(t, columns, params)
	if err != nil {
		return table.Table{}, normalization.Params{}, err
	}
	return out, params, nil
}

// Transform standardizes columns using exactly the supplied params. It never derives
// statistics from t itself.
func (n *Normalizer) Transform(
	t table.Table, columns []string, params normalization.Params,
) (table.Table, error) {
	if params.IsZero() {
		return table.Table{}, domain.NewMissingConfiguration(domain.ArtifactNormalization)
	}

	out := t
	for _, c := range columns {
		s, ok := params.Get(c)
		if !ok {
			return table.Table{}, fmt.Errorf("column %s: %w", c,
				domain.NewMissingConfiguration(domain.ArtifactNormalization))
		}
		values, ok := t.Column(c)
		if !ok {
			return table.Table{}, fmt.Errorf("%w: missing numeric column %s", domain.ErrInvalidRecord, c)
		}
		for i, v := range values {
			values[i] = s.Apply(v)
		}
		var err error
		if out, err = out.With(c, values); err != nil {
			return table.Table{}, fmt.Errorf("normalize %s: %w", c, err)
		}
	}
	return out, nil
}
