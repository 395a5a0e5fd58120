package training

import (
	"context"

	"github.com/kailas-cloud/cardiofeat/internal/domain/artifact"
)

// Repository persists a complete artifact set atomically.
type Repository interface {
	Save(ctx context.Context, set artifact.Set) error
}

// Classifier is the model trained on the feature vectors.
type Classifier interface {
	Fit(ctx context.Context, X [][]float64, y []int) error
	PredictLabel(X [][]float64) ([]int, error)
	PredictProbability(X [][]float64) ([]float64, error)
	MarshalJSON() ([]byte, error)
}

// ClassifierFactory creates an unfitted classifier for one training run.
type ClassifierFactory func() (Classifier, error)
