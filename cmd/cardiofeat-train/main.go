// Command cardiofeat-train fits the feature pipeline and classifier on a CSV dataset
// and publishes the resulting artifact generation.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cardiofeat/internal/app"
	"github.com/kailas-cloud/cardiofeat/internal/config"
	"github.com/kailas-cloud/cardiofeat/internal/domain/evaluation"
	logpkg "github.com/kailas-cloud/cardiofeat/internal/logger"
	"github.com/kailas-cloud/cardiofeat/internal/metrics"
	artifactrepo "github.com/kailas-cloud/cardiofeat/internal/repository/artifact"
	"github.com/kailas-cloud/cardiofeat/internal/repository/dataset"
	"github.com/kailas-cloud/cardiofeat/internal/usecase/features"
	traininguc "github.com/kailas-cloud/cardiofeat/internal/usecase/training"
)

func main() {
	dataPath := flag.String("data", "", "path to the training CSV")
	env := flag.String("env", config.GetEnv(), "config environment (local, dev, prod)")
	flag.Parse()

	if err := run(*dataPath, *env, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "cardiofeat-train:", err)
		os.Exit(1)
	}
}

func run(dataPath, env string, out io.Writer) error {
	if dataPath == "" {
		return fmt.Errorf("-data is required")
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := train(ctx, cfg, dataPath, logger)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// report is the JSON summary printed after a successful run.
type report struct {
	Generation string            `json:"generation"`
	Features   int               `json:"features"`
	TrainRows  int               `json:"train_rows"`
	TestRows   int               `json:"test_rows"`
	Metrics    evaluation.Report `json:"metrics"`
}

func train(ctx context.Context, cfg config.Config, dataPath string, logger *zap.Logger) (report, error) {
	featCfg, err := cfg.Features.Build()
	if err != nil {
		return report{}, fmt.Errorf("feature config: %w", err)
	}

	raw, err := dataset.LoadFile(dataPath)
	if err != nil {
		return report{}, fmt.Errorf("load dataset: %w", err)
	}
	logger.Info("Dataset loaded", zap.String("path", dataPath), zap.Int("rows", raw.NumRows()))

	store, err := app.OpenStore(ctx, cfg.Artifacts, logger)
	if err != nil {
		return report{}, err
	}
	defer store.Close()

	metrics.RegisterFeatureMetrics()

	svc := traininguc.New(traininguc.Config{
		Features:  featCfg,
		TestRatio: cfg.Training.TestRatio,
		Seed:      cfg.Training.Seed,
		CVFolds:   cfg.Training.CVFolds,
	},
		artifactrepo.New(store, cfg.Artifacts.KeyPrefix),
		app.LogisticFactory(cfg.Training),
		features.NewInstrumentedObserver(logger),
		logger,
	)

	res, err := svc.Train(ctx, raw)
	if err != nil {
		return report{}, fmt.Errorf("train: %w", err)
	}

	return report{
		Generation: res.Generation,
		Features:   res.Features,
		TrainRows:  res.TrainRows,
		TestRows:   res.TestRows,
		Metrics:    res.Metrics,
	}, nil
}
