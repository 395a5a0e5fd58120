package cardiofeat

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/cardiofeat/internal/config"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	artifacts config.ArtifactsConfig
	features  config.FeaturesConfig
	training  config.TrainingConfig

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// MinIOConfig holds S3-compatible object store settings.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	Region    string
	UseSSL    bool
}

// Category lists the codes of one categorical column.
type Category struct {
	Column string
	Codes  []int
}

// TrainingConfig tunes training runs. Zero values take the defaults
// (test ratio 0.2, seed 42, learning rate 0.1, 200 epochs, batch 32, threshold 0.5, 5 folds).
type TrainingConfig struct {
	TestRatio    float64
	Seed         uint64
	LearningRate float64
	Epochs       int
	BatchSize    int
	Threshold    float64
	CVFolds      int
}

// WithDirectory stores artifacts as files under dir.
func WithDirectory(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.artifacts.Driver = config.DriverFile
		c.artifacts.Dir = dir
	})
}

// WithRedis stores artifacts in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.artifacts.Driver = config.DriverRedis
		c.artifacts.Redis.Addrs = []string{addr}
		c.artifacts.Redis.Password = password
	})
}

// WithMinIO stores artifacts in an S3-compatible bucket.
func WithMinIO(m MinIOConfig) Option {
	return optionFunc(func(c *clientConfig) {
		c.artifacts.Driver = config.DriverMinIO
		c.artifacts.MinIO = config.MinIOConfig{
			Endpoint:  m.Endpoint,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			Bucket:    m.Bucket,
			Prefix:    m.Prefix,
			Region:    m.Region,
			UseSSL:    m.UseSSL,
		}
	})
}

// WithKeyPrefix namespaces artifact keys. Default: "cardiofeat".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.artifacts.KeyPrefix = prefix
	})
}

// WithUniverse replaces the compiled-in category universe.
// Artifacts trained under another version are rejected on load.
func WithUniverse(version string, categories ...Category) Option {
	return optionFunc(func(c *clientConfig) {
		c.features.UniverseVersion = version
		c.features.Universe = make([]config.UniverseEntry, len(categories))
		for i, cat := range categories {
			c.features.Universe[i] = config.UniverseEntry{Column: cat.Column, Codes: cat.Codes}
		}
	})
}

// WithStrictSchema makes inference fail with ErrSchemaMismatch instead of
// zero-filling missing and dropping extra columns.
func WithStrictSchema() Option {
	return optionFunc(func(c *clientConfig) {
		c.features.StrictSchema = true
	})
}

// WithTraining tunes training runs.
func WithTraining(t TrainingConfig) Option {
	return optionFunc(func(c *clientConfig) {
		c.training = config.TrainingConfig(t)
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK and feature pipeline metrics on the given registerer.
// Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
