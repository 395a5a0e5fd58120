package prediction

import (
	"context"

	"github.com/kailas-cloud/cardiofeat/internal/domain/artifact"
)

// Repository loads the currently published artifact set.
type Repository interface {
	Load(ctx context.Context) (artifact.Set, error)
}

// Classifier scores aligned feature vectors.
type Classifier interface {
	PredictProbability(X [][]float64) ([]float64, error)
	Threshold() float64
	Width() int
}

// ClassifierDecoder restores a classifier from its persisted bytes.
type ClassifierDecoder func(data []byte) (Classifier, error)
