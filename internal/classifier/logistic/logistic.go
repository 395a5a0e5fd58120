// Package logistic implements a binary logistic-regression classifier trained with
// mini-batch gradient descent.
package logistic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
)

// Config holds training hyperparameters.
type Config struct {
	LearningRate float64
	Epochs       int
	BatchSize    int
	// Threshold is the probability at or above which a row is labelled positive.
	Threshold float64
	Seed      uint64
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.LearningRate == 0 {
		c.LearningRate = 0.1
	}
	if c.Epochs == 0 {
		c.Epochs = 200
	}
	if c.BatchSize == 0 {
		c.BatchSize = 32
	}
	if c.Threshold == 0 {
		c.Threshold = 0.5
	}
}

// Validate checks hyperparameters.
func (c *Config) Validate() error {
	if c.LearningRate <= 0 || math.IsInf(c.LearningRate, 0) || math.IsNaN(c.LearningRate) {
		return fmt.Errorf("learning rate must be positive, got %v", c.LearningRate)
	}
	if c.Epochs < 1 {
		return fmt.Errorf("epochs must be >= 1, got %d", c.Epochs)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be >= 1, got %d", c.BatchSize)
	}
	if c.Threshold <= 0 || c.Threshold >= 1 {
		return fmt.Errorf("threshold must be in (0, 1), got %v", c.Threshold)
	}
	return nil
}

// Model is a logistic-regression classifier. A fitted model is read-only and safe
// for concurrent prediction.
type Model struct {
	cfg     Config
	weights []float64
	bias    float64
}

// New creates an unfitted model.
func New(cfg Config) (*Model, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Model{cfg: cfg}, nil
}

// Width returns the number of features the model was fitted on, or 0 if unfitted.
func (m *Model) Width() int { return len(m.weights) }

// Fit trains the model on X (row-major) and binary labels y.
// Rows are visited in a shuffled order seeded from the config, so equal inputs give equal models.
func (m *Model) Fit(ctx context.Context, X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("cannot fit on an empty dataset")
	}
	if len(X) != len(y) {
		return fmt.Errorf("%d rows for %d labels", len(X), len(y))
	}
	width := len(X[0])
	if width == 0 {
		return errors.New("cannot fit on zero features")
	}
	for i, row := range X {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d features, want %d",
				domain.ErrFeatureWidthMismatch, i, len(row), width)
		}
		if y[i] != 0 && y[i] != 1 {
			return fmt.Errorf("label at row %d must be 0 or 1, got %d", i, y[i])
		}
	}

	w := make([]float64, width)
	b := 0.0
	grad := make([]float64, width)
	order := make([]int, len(X))
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewPCG(m.cfg.Seed, m.cfg.Seed^0x9e3779b97f4a7c15))

	for epoch := 0; epoch < m.cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("fit interrupted at epoch %d: %w", epoch, err)
		}
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		for start := 0; start < len(order); start += m.cfg.BatchSize {
			end := min(start+m.cfg.BatchSize, len(order))
			for k := range grad {
				grad[k] = 0
			}
			gb := 0.0
			for _, i := range order[start:end] {
				d := sigmoid(floats.Dot(w, X[i])+b) - float64(y[i])
				floats.AddScaled(grad, d, X[i])
				gb += d
			}
			step := m.cfg.LearningRate / float64(end-start)
			floats.AddScaled(w, -step, grad)
			b -= step * gb
		}
	}

	m.weights, m.bias = w, b
	return nil
}

// PredictProbability returns P(label=1) per row.
func (m *Model) PredictProbability(X [][]float64) ([]float64, error) {
	if len(m.weights) == 0 {
		return nil, domain.NewMissingConfiguration(domain.ArtifactModel)
	}
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.weights) {
			return nil, fmt.Errorf("%w: row %d has %d features, model expects %d",
				domain.ErrFeatureWidthMismatch, i, len(row), len(m.weights))
		}
		out[i] = sigmoid(floats.Dot(m.weights, row) + m.bias)
	}
	return out, nil
}

// PredictLabel returns 0/1 labels at the configured threshold.
func (m *Model) PredictLabel(X [][]float64) ([]int, error) {
	probs, err := m.PredictProbability(X)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(probs))
	for i, p := range probs {
		if p >= m.cfg.Threshold {
			labels[i] = 1
		}
	}
	return labels, nil
}

// Threshold returns the decision threshold.
func (m *Model) Threshold() float64 { return m.cfg.Threshold }

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

type persisted struct {
	Kind      string    `json:"kind"`
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Threshold float64   `json:"threshold"`
}

const kind = "logistic_regression"

// MarshalJSON encodes the fitted parameters.
func (m *Model) MarshalJSON() ([]byte, error) {
	if len(m.weights) == 0 {
		return nil, errors.New("model is not fitted")
	}
	return json.Marshal(persisted{
		Kind:      kind,
		Weights:   m.weights,
		Bias:      m.bias,
		Threshold: m.cfg.Threshold,
	})
}

// Unmarshal decodes a model written by MarshalJSON.
func Unmarshal(data []byte) (*Model, error) {
	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if p.Kind != kind {
		return nil, fmt.Errorf("decode model: unsupported kind %q", p.Kind)
	}
	if len(p.Weights) == 0 {
		return nil, errors.New("decode model: no weights")
	}
	if p.Threshold <= 0 || p.Threshold >= 1 {
		return nil, fmt.Errorf("decode model: threshold %v out of range", p.Threshold)
	}
	return &Model{
		cfg:     Config{Threshold: p.Threshold},
		weights: p.Weights,
		bias:    p.Bias,
	}, nil
}
