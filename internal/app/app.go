// Package app assembles stores, repositories and services from configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cardiofeat/internal/classifier/logistic"
	"github.com/kailas-cloud/cardiofeat/internal/config"
	"github.com/kailas-cloud/cardiofeat/internal/db"
	dbFile "github.com/kailas-cloud/cardiofeat/internal/db/file"
	dbMinIO "github.com/kailas-cloud/cardiofeat/internal/db/minio"
	dbRedis "github.com/kailas-cloud/cardiofeat/internal/db/redis"
	"github.com/kailas-cloud/cardiofeat/internal/usecase/prediction"
	"github.com/kailas-cloud/cardiofeat/internal/usecase/training"
)

// OpenStore creates the artifact store selected by cfg.Driver and waits until it answers.
func OpenStore(ctx context.Context, cfg config.ArtifactsConfig, logger *zap.Logger) (db.Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverFile, "":
		store, err = dbFile.NewStore(cfg.Dir)
	case config.DriverRedis:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Redis.Addrs,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case config.DriverMinIO:
		store, err = dbMinIO.NewStore(dbMinIO.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			Prefix:    cfg.MinIO.Prefix,
			Region:    cfg.MinIO.Region,
			UseSSL:    cfg.MinIO.UseSSL,
		})
	default:
		return nil, fmt.Errorf("unknown artifact driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}

	timeout := time.Duration(cfg.ReadinessTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("artifact store not ready: %w", err)
	}
	logger.Info("Artifact store ready", zap.String("driver", cfg.Driver))
	return store, nil
}

// LogisticFactory returns a factory for unfitted logistic models configured by cfg.
func LogisticFactory(cfg config.TrainingConfig) training.ClassifierFactory {
	return func() (training.Classifier, error) {
		m, err := logistic.New(LogisticConfig(cfg))
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

// LogisticConfig maps the training section onto the classifier configuration.
func LogisticConfig(cfg config.TrainingConfig) logistic.Config {
	return logistic.Config{
		LearningRate: cfg.LearningRate,
		Epochs:       cfg.Epochs,
		BatchSize:    cfg.BatchSize,
		Threshold:    cfg.Threshold,
		Seed:         cfg.Seed,
	}
}

// DecodeLogistic restores a persisted logistic model for the prediction service.
func DecodeLogistic(data []byte) (prediction.Classifier, error) {
	m, err := logistic.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return m, nil
}
