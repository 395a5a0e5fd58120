package cardiofeat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kailas-cloud/cardiofeat/internal/app"
	"github.com/kailas-cloud/cardiofeat/internal/config"
	"github.com/kailas-cloud/cardiofeat/internal/db"
	"github.com/kailas-cloud/cardiofeat/internal/domain"
	domprediction "github.com/kailas-cloud/cardiofeat/internal/domain/prediction"
	"github.com/kailas-cloud/cardiofeat/internal/domain/record"
	"github.com/kailas-cloud/cardiofeat/internal/domain/table"
	artifactrepo "github.com/kailas-cloud/cardiofeat/internal/repository/artifact"
	"github.com/kailas-cloud/cardiofeat/internal/repository/dataset"
	healthuc "github.com/kailas-cloud/cardiofeat/internal/usecase/health"
	predictionuc "github.com/kailas-cloud/cardiofeat/internal/usecase/prediction"
	traininguc "github.com/kailas-cloud/cardiofeat/internal/usecase/training"
)

// Internal interfaces, swapped for fakes in tests.
type trainingUseCase interface {
	Train(ctx context.Context, raw table.Table) (traininguc.Result, error)
}

type predictionUseCase interface {
	Load(ctx context.Context) (string, error)
	Transform(ctx context.Context, raw table.Table) (table.Table, error)
	Predict(ctx context.Context, raw table.Table) ([]domprediction.Prediction, string, error)
	Schema() (predictionuc.Schema, error)
}

// Client is the cardiofeat SDK entry point. It is safe for concurrent use;
// predictions keep serving the previous generation while a new one is trained.
type Client struct {
	store     db.Store
	trainSvc  trainingUseCase
	predSvc   predictionUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client, waits for the artifact store and loads the published
// generation if there is one. The provided context bounds the readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.artifacts.Driver == "" {
		return nil, errors.New("cardiofeat: artifact store required (use WithDirectory, WithRedis or WithMinIO)")
	}

	full := config.Config{Artifacts: cfg.artifacts, Features: cfg.features, Training: cfg.training}
	full.ApplyDefaults()

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := app.OpenStore(ctx, full.Artifacts, nil)
	if err != nil {
		return nil, fmt.Errorf("cardiofeat: %w", err)
	}

	c, err := wireClient(store, full, obs)
	if err != nil {
		store.Close()
		return nil, err
	}

	if _, err := c.predSvc.Load(ctx); err != nil && !errors.Is(err, domain.ErrMissingConfiguration) {
		store.Close()
		return nil, fmt.Errorf("cardiofeat: load published generation: %w", err)
	}
	return c, nil
}

func wireClient(store db.Store, cfg config.Config, obs *observer) (*Client, error) {
	featCfg, err := cfg.Features.Build()
	if err != nil {
		return nil, fmt.Errorf("cardiofeat: features: %w", err)
	}
	newClassifier := app.LogisticFactory(cfg.Training)
	if _, err := newClassifier(); err != nil {
		return nil, fmt.Errorf("cardiofeat: training: %w", err)
	}

	repo := artifactrepo.New(store, cfg.Artifacts.KeyPrefix)
	trainSvc := traininguc.New(traininguc.Config{
		Features:  featCfg,
		TestRatio: cfg.Training.TestRatio,
		Seed:      cfg.Training.Seed,
		CVFolds:   cfg.Training.CVFolds,
	}, repo, newClassifier, obs, nil)
	predSvc := predictionuc.New(featCfg, repo, app.DecodeLogistic, obs, nil)

	return &Client{
		store:     store,
		trainSvc:  trainSvc,
		predSvc:   predSvc,
		healthSvc: healthuc.New(store, predSvc),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Train fits the pipeline and classifier on a CSV dataset with a target column,
// publishes the artifacts and starts serving the new generation.
func (c *Client) Train(ctx context.Context, dataset io.Reader) (res TrainResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("train", start, err) }()

	raw, err := loadDataset(dataset)
	if err != nil {
		return TrainResult{}, err
	}
	out, err := c.trainSvc.Train(ctx, raw)
	if err != nil {
		return TrainResult{}, fmt.Errorf("train: %w", err)
	}
	if _, err := c.predSvc.Load(ctx); err != nil {
		return TrainResult{}, fmt.Errorf("load trained generation: %w", err)
	}
	return trainResultFromDomain(out), nil
}

// Predict scores patients with the generation currently served.
func (c *Client) Predict(ctx context.Context, patients []Patient) (preds []Prediction, err error) {
	start := time.Now()
	defer func() { c.obs.observe("predict", start, err) }()

	raw, err := record.Batch(patients)
	if err != nil {
		return nil, err
	}
	out, _, err := c.predSvc.Predict(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	return predictionsFromDomain(out), nil
}

// Features returns the aligned feature matrix the classifier would see.
func (c *Client) Features(ctx context.Context, patients []Patient) (m FeatureMatrix, err error) {
	start := time.Now()
	defer func() { c.obs.observe("features", start, err) }()

	raw, err := record.Batch(patients)
	if err != nil {
		return FeatureMatrix{}, err
	}
	out, err := c.predSvc.Transform(ctx, raw)
	if err != nil {
		return FeatureMatrix{}, fmt.Errorf("transform: %w", err)
	}
	return FeatureMatrix{Columns: out.Columns(), Rows: out.Rows()}, nil
}

// Reload loads the generation currently published in the store, for example one
// written by another process. It returns the generation now served.
func (c *Client) Reload(ctx context.Context) (gen string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("reload", start, err) }()

	gen, err = c.predSvc.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("reload: %w", err)
	}
	return gen, nil
}

// Schema describes the generation currently served.
func (c *Client) Schema() (Schema, error) {
	s, err := c.predSvc.Schema()
	if err != nil {
		return Schema{}, fmt.Errorf("schema: %w", err)
	}
	return schemaFromDomain(s), nil
}

func loadDataset(r io.Reader) (table.Table, error) {
	raw, err := dataset.LoadCSV(r)
	if err != nil {
		return table.Table{}, fmt.Errorf("load dataset: %w", err)
	}
	return raw, nil
}
