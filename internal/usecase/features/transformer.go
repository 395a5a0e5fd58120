package features

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
	"github.com/kailas-cloud/cardiofeat/internal/domain/mode"
	"github.com/kailas-cloud/cardiofeat/internal/domain/normalization"
	"github.com/kailas-cloud/cardiofeat/internal/domain/schema"
	"github.com/kailas-cloud/cardiofeat/internal/domain/table"
	"github.com/kailas-cloud/cardiofeat/internal/domain/universe"
	"github.com/kailas-cloud/cardiofeat/internal/metrics"
)

// Config declares what the transformer encodes and normalizes.
type Config struct {
	Universe       universe.Universe
	NumericColumns []string
	// LabelColumn is carried through training untouched and never becomes a feature.
	LabelColumn  string
	StrictSchema bool
}

// Fitted is the configuration a training run produced. Inference reads it, never writes it.
type Fitted struct {
	Params    normalization.Params
	Reference schema.Reference
}

// Transformer sequences Encoder -> Normalizer -> Aligner.
// It is immutable after construction and safe for concurrent use.
type Transformer struct {
	cfg        Config
	encoder    *Encoder
	normalizer *Normalizer
	aligner    *Aligner
	fitted     *Fitted
	sink       ArtifactSink
	observer   Observer
	logger     *zap.Logger
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithFitted injects the configuration used by inference-mode transforms.
func WithFitted(f Fitted) Option {
	return func(t *Transformer) { t.fitted = &f }
}

// WithSink sets where training-mode transforms hand their fitted configuration.
func WithSink(s ArtifactSink) Option {
	return func(t *Transformer) { t.sink = s }
}

// WithObserver sets the reconciliation observer.
func WithObserver(o Observer) Option {
	return func(t *Transformer) { t.observer = o }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Transformer) { t.logger = l }
}

// NewTransformer validates cfg and creates a Transformer.
func NewTransformer(cfg Config, opts ...Option) (*Transformer, error) {
	if len(cfg.NumericColumns) == 0 {
		return nil, errors.New("at least one numeric column is required")
	}
	if cfg.Universe.Version() == "" {
		return nil, fmt.Errorf("%w: universe is not initialized", domain.ErrInvalidUniverse)
	}
	seen := make(map[string]struct{}, len(cfg.NumericColumns))
	for _, c := range cfg.NumericColumns {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("duplicate numeric column: %s", c)
		}
		if cfg.Universe.Contains(c) {
			return nil, fmt.Errorf("column %s is both numeric and categorical", c)
		}
		seen[c] = struct{}{}
	}
	if cfg.LabelColumn != "" {
		if _, ok := seen[cfg.LabelColumn]; ok || cfg.Universe.Contains(cfg.LabelColumn) {
			return nil, fmt.Errorf("label column %s cannot be a feature", cfg.LabelColumn)
		}
	}

	t := &Transformer{cfg: cfg, logger: zap.NewNop()}
	for _, o := range opts {
		o(t)
	}
	t.observer = observerOrNop(t.observer)
	t.encoder = NewEncoder(t.observer)
	t.normalizer = NewNormalizer()
	t.aligner = NewAligner(t.observer, cfg.StrictSchema)
	return t, nil
}

// Fitted returns the injected inference configuration, if any.
func (t *Transformer) Fitted() (Fitted, bool) {
	if t.fitted == nil {
		return Fitted{}, false
	}
	return *t.fitted, true
}

// Transform runs the pipeline in the caller-selected mode.
//
// Training fits normalization parameters, captures the reference list, hands both to the
// sink and returns the full transformed table with the label column re-attached last.
// Inference applies the injected configuration and returns the aligned feature table.
func (t *Transformer) Transform(ctx context.Context, raw table.Table, m mode.Mode) (table.Table, error) {
	var (
		out table.Table
		err error
	)
	switch m {
	case mode.Training:
		out, err = t.train(ctx, raw)
	case mode.Inference:
		out, err = t.infer(raw)
	default:
		return table.Table{}, fmt.Errorf("unknown transform mode %q", m)
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.TransformTotal.WithLabelValues(string(m), status).Inc()
	return out, err
}

func (t *Transformer) train(ctx context.Context, raw table.Table) (table.Table, error) {
	if t.sink == nil {
		return table.Table{}, errors.New("training transform requires an artifact sink")
	}

	var label []float64
	hasLabel := false
	features := raw
	if t.cfg.LabelColumn != "" {
		label, hasLabel = raw.Column(t.cfg.LabelColumn)
		features = raw.Without(t.cfg.LabelColumn)
	}

	encoded, err := t.encoder.Encode(features, t.cfg.Universe)
	if err != nil {
		return table.Table{}, fmt.Errorf("encode: %w", err)
	}
	normalized, params, err := t.normalizer.FitTransform(encoded, t.cfg.NumericColumns)
	if err != nil {
		return table.Table{}, fmt.Errorf("normalize: %w", err)
	}
	ref, err := t.aligner.Capture(normalized)
	if err != nil {
		return table.Table{}, err
	}

	if err := t.sink.PutFeatures(ctx, params, ref); err != nil {
		return table.Table{}, fmt.Errorf("persist features: %w", err)
	}

	t.logger.Debug("Feature configuration fitted",
		zap.Int("rows", raw.NumRows()),
		zap.Int("features", ref.Len()),
		zap.Strings("normalized", params.Columns()),
		zap.String("universe", t.cfg.Universe.Version()),
	)

	if !hasLabel {
		return normalized, nil
	}
	out, err := normalized.With(t.cfg.LabelColumn, label)
	if err != nil {
		return table.Table{}, fmt.Errorf("attach label: %w", err)
	}
	return out, nil
}

func (t *Transformer) infer(raw table.Table) (table.Table, error) {
	if t.fitted == nil || t.fitted.Params.IsZero() {
		return table.Table{}, domain.NewMissingConfiguration(domain.ArtifactNormalization)
	}
	if t.fitted.Reference.IsZero() {
		return table.Table{}, domain.NewMissingConfiguration(domain.ArtifactReference)
	}

	encoded, err := t.encoder.Encode(raw, t.cfg.Universe)
	if err != nil {
		return table.Table{}, fmt.Errorf("encode: %w", err)
	}
	normalized, err := t.normalizer.Transform(encoded, t.cfg.NumericColumns, t.fitted.Params)
	if err != nil {
		return table.Table{}, fmt.Errorf("normalize: %w", err)
	}
	aligned, err := t.aligner.Align(normalized, t.fitted.Reference)
	if err != nil {
		return table.Table{}, fmt.Errorf("align: %w", err)
	}
	return aligned, nil
}
