package training

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
	"github.com/kailas-cloud/cardiofeat/internal/domain/artifact"
	"github.com/kailas-cloud/cardiofeat/internal/domain/evaluation"
	"github.com/kailas-cloud/cardiofeat/internal/domain/mode"
	"github.com/kailas-cloud/cardiofeat/internal/domain/normalization"
	"github.com/kailas-cloud/cardiofeat/internal/domain/schema"
	"github.com/kailas-cloud/cardiofeat/internal/domain/table"
	"github.com/kailas-cloud/cardiofeat/internal/metrics"
	"github.com/kailas-cloud/cardiofeat/internal/usecase/features"
)

// Config controls a training run. CVFolds below 2 skips cross-validation.
type Config struct {
	Features  features.Config
	TestRatio float64
	Seed      uint64
	CVFolds   int
}

// Result summarizes a completed training run.
type Result struct {
	Generation string
	TrainedAt  time.Time
	Features   int
	TrainRows  int
	TestRows   int
	Metrics    evaluation.Report
}

// Service runs the training pipeline: fit features, fit the classifier, evaluate, persist.
type Service struct {
	cfg           Config
	repo          Repository
	newClassifier ClassifierFactory
	observer      features.Observer
	logger        *zap.Logger
	now           func() time.Time
}

// New creates a training service. observer and logger may be nil.
func New(cfg Config, repo Repository, factory ClassifierFactory, observer features.Observer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:           cfg,
		repo:          repo,
		newClassifier: factory,
		observer:      observer,
		logger:        logger,
		now:           time.Now,
	}
}

// staging holds the fitted feature configuration until the whole set is ready to publish.
type staging struct {
	params normalization.Params
	ref    schema.Reference
}

func (s *staging) PutFeatures(_ context.Context, p normalization.Params, r schema.Reference) error {
	s.params, s.ref = p, r
	return nil
}

// Train fits a new artifact generation from a labelled raw table and publishes it.
func (s *Service) Train(ctx context.Context, raw table.Table) (Result, error) {
	res, err := s.train(ctx, raw)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.TrainingRunsTotal.WithLabelValues(status).Inc()
	return res, err
}

func (s *Service) train(ctx context.Context, raw table.Table) (Result, error) {
	label := s.cfg.Features.LabelColumn
	if label == "" {
		return Result{}, errors.New("training requires a label column")
	}
	if raw.NumRows() == 0 {
		return Result{}, fmt.Errorf("%w: training dataset is empty", domain.ErrInvalidRecord)
	}
	rawLabels, ok := raw.Column(label)
	if !ok {
		return Result{}, fmt.Errorf("%w: label column %s is missing", domain.ErrInvalidRecord, label)
	}
	y, err := binaryLabels(rawLabels)
	if err != nil {
		return Result{}, err
	}

	stage := &staging{}
	tr, err := features.NewTransformer(s.cfg.Features,
		features.WithSink(stage),
		features.WithObserver(s.observer),
		features.WithLogger(s.logger),
	)
	if err != nil {
		return Result{}, fmt.Errorf("build transformer: %w", err)
	}
	out, err := tr.Transform(ctx, raw, mode.Training)
	if err != nil {
		return Result{}, fmt.Errorf("transform: %w", err)
	}
	X := out.Without(label).Rows()

	split, err := evaluation.TrainTestSplit(len(X), s.cfg.TestRatio, s.cfg.Seed)
	if err != nil {
		return Result{}, err
	}
	evalIdx := split.Test
	if len(evalIdx) == 0 {
		evalIdx = split.Train
	}

	trainX, trainY := pick(X, y, split.Train)
	clf, err := s.fit(ctx, trainX, trainY)
	if err != nil {
		return Result{}, err
	}
	evalX, evalY := pick(X, y, evalIdx)
	report, err := s.evaluate(clf, evalX, evalY)
	if err != nil {
		return Result{}, err
	}
	if err := s.crossValidate(ctx, trainX, trainY, &report); err != nil {
		return Result{}, err
	}
	model, err := clf.MarshalJSON()
	if err != nil {
		return Result{}, fmt.Errorf("serialize classifier: %w", err)
	}

	trainedAt := s.now().UTC()
	set := artifact.Set{
		Generation:      artifact.NewGeneration(trainedAt),
		TrainedAt:       trainedAt,
		UniverseVersion: s.cfg.Features.Universe.Version(),
		Params:          stage.params,
		Reference:       stage.ref,
		Model:           model,
		Metrics:         report,
	}
	if err := s.repo.Save(ctx, set); err != nil {
		return Result{}, fmt.Errorf("save artifacts: %w", err)
	}

	s.logger.Info("Training run published",
		zap.String("generation", set.Generation),
		zap.Int("rows", raw.NumRows()),
		zap.Int("features", set.Reference.Len()),
		zap.Float64("accuracy", report.Accuracy),
		zap.Float64("f1", report.F1),
		zap.Float64("roc_auc", report.ROCAUC),
		zap.Float64("cv_accuracy_mean", report.CVAccuracyMean),
	)

	return Result{
		Generation: set.Generation,
		TrainedAt:  trainedAt,
		Features:   set.Reference.Len(),
		TrainRows:  len(split.Train),
		TestRows:   len(split.Test),
		Metrics:    report,
	}, nil
}

func (s *Service) fit(ctx context.Context, X [][]float64, y []int) (Classifier, error) {
	clf, err := s.newClassifier()
	if err != nil {
		return nil, fmt.Errorf("create classifier: %w", err)
	}
	if err := clf.Fit(ctx, X, y); err != nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}
	return clf, nil
}

// evaluate scores clf on held-out rows. ROCAUC stays zero when the rows hold one class.
func (s *Service) evaluate(clf Classifier, X [][]float64, y []int) (evaluation.Report, error) {
	predicted, err := clf.PredictLabel(X)
	if err != nil {
		return evaluation.Report{}, fmt.Errorf("evaluate: %w", err)
	}
	report, err := evaluation.Evaluate(y, predicted)
	if err != nil {
		return evaluation.Report{}, fmt.Errorf("evaluate: %w", err)
	}
	probs, err := clf.PredictProbability(X)
	if err != nil {
		return evaluation.Report{}, fmt.Errorf("evaluate: %w", err)
	}
	auc, err := evaluation.ROCAUC(y, probs)
	switch {
	case errors.Is(err, evaluation.ErrSingleClass):
		s.logger.Warn("ROC AUC undefined on a single-class evaluation split", zap.Int("rows", len(y)))
	case err != nil:
		return evaluation.Report{}, fmt.Errorf("evaluate: %w", err)
	default:
		report.ROCAUC = auc
	}
	return report, nil
}

// crossValidate fits one classifier per stratified fold of the training rows and
// records the mean and std of the fold accuracies. Too few rows skip it.
func (s *Service) crossValidate(ctx context.Context, X [][]float64, y []int, report *evaluation.Report) error {
	if s.cfg.CVFolds < 2 {
		return nil
	}
	folds, err := evaluation.StratifiedKFold(y, s.cfg.CVFolds)
	if err != nil {
		s.logger.Warn("Cross-validation skipped", zap.Int("rows", len(y)), zap.Error(err))
		return nil
	}
	scores := make([]float64, len(folds))
	for i, f := range folds {
		if err := ctx.Err(); err != nil {
			return err
		}
		fx, fy := pick(X, y, f.Train)
		clf, err := s.fit(ctx, fx, fy)
		if err != nil {
			return fmt.Errorf("cross-validate fold %d: %w", i, err)
		}
		tx, ty := pick(X, y, f.Test)
		predicted, err := clf.PredictLabel(tx)
		if err != nil {
			return fmt.Errorf("cross-validate fold %d: %w", i, err)
		}
		r, err := evaluation.Evaluate(ty, predicted)
		if err != nil {
			return fmt.Errorf("cross-validate fold %d: %w", i, err)
		}
		scores[i] = r.Accuracy
	}
	report.CVFolds = len(folds)
	report.CVAccuracyMean, report.CVAccuracyStd = evaluation.MeanStd(scores)
	return nil
}

func binaryLabels(values []float64) ([]int, error) {
	y := make([]int, len(values))
	for i, v := range values {
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("%w: label at row %d must be 0 or 1, got %v", domain.ErrInvalidRecord, i, v)
		}
		y[i] = int(math.Round(v))
	}
	return y, nil
}

func pick(X [][]float64, y []int, idx []int) ([][]float64, []int) {
	px := make([][]float64, len(idx))
	py := make([]int, len(idx))
	for k, i := range idx {
		px[k], py[k] = X[i], y[i]
	}
	return px, py
}
