package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cardiofeat/internal/config"
	dbFile "github.com/kailas-cloud/cardiofeat/internal/db/file"
	artifactrepo "github.com/kailas-cloud/cardiofeat/internal/repository/artifact"
)

// writeDataset writes a CSV using the published dataset's headers.
func writeDataset(t *testing.T, n int) string {
	t.Helper()
	r := rand.New(rand.NewPCG(11, 12))

	var b strings.Builder
	b.WriteString("age,sex,chest pain type,resting bp s,cholesterol,fasting blood sugar," +
		"resting ecg,max heart rate,exercise angina,oldpeak,ST slope,target\n")
	for range n {
		angina := r.IntN(2)
		oldpeak := r.Float64() * 4
		target := 0
		if angina == 1 || oldpeak > 2.5 {
			target = 1
		}
		fmt.Fprintf(&b, "%d,%d,%d,%d,%d,%d,%d,%d,%d,%.1f,%d,%d\n",
			30+r.IntN(45), r.IntN(2), 1+r.IntN(4), 100+r.IntN(80), 150+r.IntN(250), r.IntN(2),
			r.IntN(3), 90+r.IntN(100), angina, oldpeak, 1+r.IntN(3), target)
	}

	path := filepath.Join(t.TempDir(), "heart.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func TestTrain_PublishesGeneration(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{HTTP: config.HTTPConfig{Port: 8080}}
	cfg.Artifacts.Dir = dir
	cfg.Training.Epochs = 100
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())

	rep, err := train(context.Background(), cfg, writeDataset(t, 200), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 18, rep.Features)
	assert.Equal(t, 160, rep.TrainRows)
	assert.Equal(t, 40, rep.TestRows)
	assert.Equal(t, 40, rep.Metrics.Samples)
	assert.Equal(t, 5, rep.Metrics.CVFolds)

	store, err := dbFile.NewStore(dir)
	require.NoError(t, err)
	gen, err := artifactrepo.New(store, cfg.Artifacts.KeyPrefix).Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rep.Generation, gen)
}

func TestTrain_MissingDataset(t *testing.T) {
	cfg := config.Config{HTTP: config.HTTPConfig{Port: 8080}}
	cfg.Artifacts.Dir = t.TempDir()
	cfg.ApplyDefaults()

	_, err := train(context.Background(), cfg, filepath.Join(t.TempDir(), "missing.csv"), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load dataset")
}

func TestRun_RequiresData(t *testing.T) {
	err := run("", "local", &strings.Builder{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-data")
}
