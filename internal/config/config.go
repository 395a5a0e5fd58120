package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/cardiofeat/internal/domain/record"
	"github.com/kailas-cloud/cardiofeat/internal/domain/universe"
	"github.com/kailas-cloud/cardiofeat/internal/usecase/features"
)

// Artifact store drivers.
const (
	DriverFile  = "file"
	DriverRedis = "redis"
	DriverMinIO = "minio"
)

// Config holds the cardiofeat configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Logging   LoggingConfig   `yaml:"logging"`
	Auth      AuthConfig      `yaml:"auth"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Features  FeaturesConfig  `yaml:"features"`
	Training  TrainingConfig  `yaml:"training"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ArtifactsConfig selects and configures the artifact store.
type ArtifactsConfig struct {
	Driver           string      `yaml:"driver"` // file, redis, minio (default: file)
	Dir              string      `yaml:"dir"`
	KeyPrefix        string      `yaml:"key_prefix"`
	ReadinessTimeout int         `yaml:"readiness_timeout_sec"`
	Redis            RedisConfig `yaml:"redis"`
	MinIO            MinIOConfig `yaml:"minio"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
}

// MinIOConfig holds S3-compatible object store settings.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// UniverseEntry is one categorical column and its codes.
type UniverseEntry struct {
	Column string `yaml:"column"`
	Codes  []int  `yaml:"codes"`
}

// FeaturesConfig holds the feature pipeline settings.
// An empty universe means the compiled-in heart-disease universe.
type FeaturesConfig struct {
	UniverseVersion string          `yaml:"universe_version"`
	Universe        []UniverseEntry `yaml:"universe"`
	NumericColumns  []string        `yaml:"numeric_columns"`
	LabelColumn     string          `yaml:"label_column"`
	StrictSchema    bool            `yaml:"strict_schema"`
}

// TrainingConfig holds training job settings.
type TrainingConfig struct {
	TestRatio    float64 `yaml:"test_ratio"`
	Seed         uint64  `yaml:"seed"`
	LearningRate float64 `yaml:"learning_rate"`
	Epochs       int     `yaml:"epochs"`
	BatchSize    int     `yaml:"batch_size"`
	Threshold    float64 `yaml:"threshold"`
	CVFolds      int     `yaml:"cv_folds"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML config data, expanding ${VAR} references, and applies defaults.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Artifacts.Driver == "" {
		c.Artifacts.Driver = DriverFile
	}
	if c.Artifacts.Dir == "" {
		c.Artifacts.Dir = "artifacts"
	}
	if c.Artifacts.KeyPrefix == "" {
		c.Artifacts.KeyPrefix = "cardiofeat"
	}
	if c.Artifacts.ReadinessTimeout <= 0 {
		c.Artifacts.ReadinessTimeout = 10
	}
	if len(c.Features.NumericColumns) == 0 {
		c.Features.NumericColumns = record.NumericColumns()
	}
	if c.Features.LabelColumn == "" {
		c.Features.LabelColumn = record.Target
	}
	if c.Training.TestRatio == 0 {
		c.Training.TestRatio = 0.2
	}
	if c.Training.Seed == 0 {
		c.Training.Seed = 42
	}
	if c.Training.CVFolds == 0 {
		c.Training.CVFolds = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Artifacts.Driver {
	case DriverFile:
	case DriverRedis:
		if len(c.Artifacts.Redis.Addrs) == 0 {
			return fmt.Errorf("artifacts.redis.addrs is required for the redis driver")
		}
	case DriverMinIO:
		if c.Artifacts.MinIO.Endpoint == "" || c.Artifacts.MinIO.Bucket == "" {
			return fmt.Errorf("artifacts.minio.endpoint and artifacts.minio.bucket are required for the minio driver")
		}
	default:
		return fmt.Errorf("artifacts.driver must be one of file, redis, minio, got %q", c.Artifacts.Driver)
	}
	if c.Training.TestRatio < 0 || c.Training.TestRatio >= 1 {
		return fmt.Errorf("training.test_ratio must be in [0, 1), got %v", c.Training.TestRatio)
	}
	if c.Training.CVFolds < 2 {
		return fmt.Errorf("training.cv_folds must be at least 2, got %d", c.Training.CVFolds)
	}
	if len(c.Features.Universe) > 0 && c.Features.UniverseVersion == "" {
		return fmt.Errorf("features.universe_version is required with a custom universe")
	}
	if _, err := c.Features.Build(); err != nil {
		return fmt.Errorf("features: %w", err)
	}
	return nil
}

// BuildUniverse returns the configured category universe, or the compiled-in one when none is set.
func (f FeaturesConfig) BuildUniverse() (universe.Universe, error) {
	if len(f.Universe) == 0 {
		def := record.DefaultUniverse()
		if f.UniverseVersion != "" && f.UniverseVersion != def.Version() {
			return universe.Universe{}, fmt.Errorf("universe_version %s requires an explicit universe", f.UniverseVersion)
		}
		return def, nil
	}
	entries := make([]universe.Entry, len(f.Universe))
	for i, e := range f.Universe {
		entries[i] = universe.Entry{Column: e.Column, Codes: e.Codes}
	}
	return universe.New(f.UniverseVersion, entries...)
}

// Build converts the section into the feature pipeline configuration.
func (f FeaturesConfig) Build() (features.Config, error) {
	u, err := f.BuildUniverse()
	if err != nil {
		return features.Config{}, err
	}
	cfg := features.Config{
		Universe:       u,
		NumericColumns: f.NumericColumns,
		LabelColumn:    f.LabelColumn,
		StrictSchema:   f.StrictSchema,
	}
	if _, err := features.NewTransformer(cfg); err != nil {
		return features.Config{}, err
	}
	return cfg, nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// Relative to the source file, for tests and go run from subdirectories.
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b)))
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
