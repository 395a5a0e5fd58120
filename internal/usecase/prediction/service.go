package prediction

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
	"github.com/kailas-cloud/cardiofeat/internal/domain/artifact"
	"github.com/kailas-cloud/cardiofeat/internal/domain/evaluation"
	"github.com/kailas-cloud/cardiofeat/internal/domain/mode"
	domprediction "github.com/kailas-cloud/cardiofeat/internal/domain/prediction"
	"github.com/kailas-cloud/cardiofeat/internal/domain/table"
	"github.com/kailas-cloud/cardiofeat/internal/metrics"
	"github.com/kailas-cloud/cardiofeat/internal/usecase/features"
)

// engine is one loaded generation: transformer and classifier built from the same set.
type engine struct {
	set         artifact.Set
	transformer *features.Transformer
	classifier  Classifier
}

// Schema describes the generation being served.
type Schema struct {
	Generation      string
	TrainedAt       time.Time
	UniverseVersion string
	Columns         []string
	NumericColumns  []string
	Metrics         evaluation.Report
}

// Service serves predictions from the latest loaded generation.
// Load swaps the whole engine at once; in-flight requests finish on the engine they started with.
type Service struct {
	cfg      features.Config
	repo     Repository
	decode   ClassifierDecoder
	observer features.Observer
	logger   *zap.Logger
	current  atomic.Pointer[engine]
}

// New creates a prediction service with no engine loaded. observer and logger may be nil.
func New(cfg features.Config, repo Repository, decode ClassifierDecoder, observer features.Observer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, repo: repo, decode: decode, observer: observer, logger: logger}
}

// Load reads the published artifact set and swaps it in. On any error the previously
// loaded engine, if any, keeps serving.
func (s *Service) Load(ctx context.Context) (string, error) {
	set, err := s.repo.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load artifacts: %w", err)
	}
	if set.UniverseVersion != s.cfg.Universe.Version() {
		return "", fmt.Errorf("%w: generation %s was trained with universe %s, configured %s",
			domain.ErrInvalidUniverse, set.Generation, set.UniverseVersion, s.cfg.Universe.Version())
	}

	if err := sameColumns(set.Params.Columns(), s.cfg.NumericColumns); err != nil {
		return "", fmt.Errorf("%w: generation %s %v", domain.ErrNormalizationMismatch, set.Generation, err)
	}

	clf, err := s.decode(set.Model)
	if err != nil {
		return "", fmt.Errorf("decode model: %w", err)
	}
	if clf.Width() != set.Reference.Len() {
		return "", fmt.Errorf("%w: model expects %d features, reference lists %d",
			domain.ErrFeatureWidthMismatch, clf.Width(), set.Reference.Len())
	}

	tr, err := features.NewTransformer(s.cfg,
		features.WithFitted(features.Fitted{Params: set.Params, Reference: set.Reference}),
		features.WithObserver(s.observer),
		features.WithLogger(s.logger),
	)
	if err != nil {
		return "", fmt.Errorf("build transformer: %w", err)
	}

	set.Model = nil
	prev := s.current.Swap(&engine{set: set, transformer: tr, classifier: clf})
	metrics.ModelTrainedTimestamp.Set(float64(set.TrainedAt.Unix()))

	fields := []zap.Field{
		zap.String("generation", set.Generation),
		zap.Int("features", set.Reference.Len()),
	}
	if prev != nil {
		fields = append(fields, zap.String("previous", prev.set.Generation))
	}
	s.logger.Info("Model generation loaded", fields...)
	return set.Generation, nil
}

// Ready reports whether an engine is loaded.
func (s *Service) Ready() bool {
	return s.current.Load() != nil
}

func (s *Service) loaded() (*engine, error) {
	e := s.current.Load()
	if e == nil {
		return nil, domain.NewMissingConfiguration(domain.ArtifactSet)
	}
	return e, nil
}

// Transform returns the aligned feature vectors for raw, exactly as the classifier sees them.
func (s *Service) Transform(ctx context.Context, raw table.Table) (table.Table, error) {
	e, err := s.loaded()
	if err != nil {
		return table.Table{}, err
	}
	return e.transformer.Transform(ctx, raw, mode.Inference)
}

// Predict scores every row of raw.
func (s *Service) Predict(ctx context.Context, raw table.Table) ([]domprediction.Prediction, string, error) {
	e, err := s.loaded()
	if err != nil {
		return nil, "", err
	}
	X, err := e.transformer.Transform(ctx, raw, mode.Inference)
	if err != nil {
		return nil, "", err
	}
	probs, err := e.classifier.PredictProbability(X.Rows())
	if err != nil {
		return nil, "", fmt.Errorf("predict: %w", err)
	}

	threshold := e.classifier.Threshold()
	out := make([]domprediction.Prediction, len(probs))
	for i, p := range probs {
		label := 0
		if p >= threshold {
			label = 1
		}
		out[i] = domprediction.New(label, p)
		metrics.PredictionsTotal.WithLabelValues(strconv.Itoa(label)).Inc()
	}
	return out, e.set.Generation, nil
}

// Schema describes the loaded generation.
func (s *Service) Schema() (Schema, error) {
	e, err := s.loaded()
	if err != nil {
		return Schema{}, err
	}
	return Schema{
		Generation:      e.set.Generation,
		TrainedAt:       e.set.TrainedAt,
		UniverseVersion: e.set.UniverseVersion,
		Columns:         e.set.Reference.Columns(),
		NumericColumns:  e.set.Params.Columns(),
		Metrics:         e.set.Metrics,
	}, nil
}

// sameColumns fails unless persisted and configured hold the same columns in any order.
func sameColumns(persisted, configured []string) error {
	var unlisted, unfitted []string
	for _, c := range persisted {
		if !slices.Contains(configured, c) {
			unlisted = append(unlisted, c)
		}
	}
	for _, c := range configured {
		if !slices.Contains(persisted, c) {
			unfitted = append(unfitted, c)
		}
	}
	if len(unlisted) == 0 && len(unfitted) == 0 {
		return nil
	}
	return fmt.Errorf("fitted but not configured %v, configured but not fitted %v", unlisted, unfitted)
}
