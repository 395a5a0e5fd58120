package artifact

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/cardiofeat/internal/db"
	domart "github.com/kailas-cloud/cardiofeat/internal/domain/artifact"
	"github.com/kailas-cloud/cardiofeat/internal/domain/evaluation"
	"github.com/kailas-cloud/cardiofeat/internal/domain/normalization"
	"github.com/kailas-cloud/cardiofeat/internal/domain/schema"
)

// --- Mocks ---

type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	failSet string
	writes  []string
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != "" && strings.HasSuffix(key, m.failSet) {
		return &db.Error{Op: db.OpSet, Key: key, Err: errors.New("disk full")}
	}
	m.data[key] = append([]byte(nil), value...)
	m.writes = append(m.writes, key)
	return nil
}

func testSet(t *testing.T, gen string) domart.Set {
	t.Helper()
	params, err := normalization.New(
		[]string{"age", "cholesterol"},
		[]normalization.Stat{{Mean: 53.72, Scale: 9.358}, {Mean: 250, Scale: 50}},
	)
	if err != nil {
		t.Fatal(err)
	}
	ref, err := schema.NewReference([]string{"age", "cholesterol", "chest_pain_1", "chest_pain_2"})
	if err != nil {
		t.Fatal(err)
	}
	return domart.Set{
		Generation:      gen,
		TrainedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UniverseVersion: "heart-v1",
		Params:          params,
		Reference:       ref,
		Model:           []byte(`{"kind":"logistic_regression"}`),
		Metrics:         evaluation.Report{Accuracy: 0.85, Samples: 20, ROCAUC: 0.91, CVFolds: 5, CVAccuracyMean: 0.83, CVAccuracyStd: 0.04},
	}
}
