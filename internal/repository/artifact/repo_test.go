package artifact

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newMemStore()
	r := New(s, "/cardiofeat/")
	want := testSet(t, "gen-1")

	if err := r.Save(context.Background(), want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := r.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.Generation != "gen-1" || got.UniverseVersion != "heart-v1" {
		t.Errorf("unexpected identity: %s %s", got.Generation, got.UniverseVersion)
	}
	if !got.TrainedAt.Equal(want.TrainedAt) {
		t.Errorf("trained at %v, want %v", got.TrainedAt, want.TrainedAt)
	}
	if !got.Reference.Equal(want.Reference) {
		t.Errorf("reference %v, want %v", got.Reference.Columns(), want.Reference.Columns())
	}
	stat, _ := got.Params.Get("age")
	if stat.Mean != 53.72 || stat.Scale != 9.358 {
		t.Errorf("age params not preserved exactly: %+v", stat)
	}
	if string(got.Model) != string(want.Model) {
		t.Errorf("model %s", got.Model)
	}
	if got.Metrics != want.Metrics {
		t.Errorf("metrics %+v", got.Metrics)
	}
}

func TestSave_CurrentWrittenLast(t *testing.T) {
	s := newMemStore()
	r := New(s, "cardiofeat")

	if err := r.Save(context.Background(), testSet(t, "gen-1")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(s.writes) != 5 {
		t.Fatalf("expected 5 writes, got %v", s.writes)
	}
	if last := s.writes[len(s.writes)-1]; last != "cardiofeat/CURRENT" {
		t.Errorf("expected CURRENT last, got %s", last)
	}
	if _, ok := s.data["cardiofeat/gen-1/feature_columns.csv"]; !ok {
		t.Error("feature_columns.csv not written under generation")
	}
}

func TestSave_FailureKeepsPreviousGeneration(t *testing.T) {
	s := newMemStore()
	r := New(s, "")
	ctx := context.Background()

	if err := r.Save(ctx, testSet(t, "gen-1")); err != nil {
		t.Fatalf("Save gen-1: %v", err)
	}
	s.failSet = "model.json"
	if err := r.Save(ctx, testSet(t, "gen-2")); err == nil {
		t.Fatal("expected save failure")
	}

	got, err := r.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Generation != "gen-1" {
		t.Errorf("expected gen-1 still served, got %s", got.Generation)
	}
}

func TestSave_RejectsIncompleteSet(t *testing.T) {
	set := testSet(t, "gen-1")
	set.Model = nil
	if err := New(newMemStore(), "").Save(context.Background(), set); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoad_NothingPublished(t *testing.T) {
	_, err := New(newMemStore(), "cardiofeat").Load(context.Background())

	var mc *domain.MissingConfigurationError
	if !errors.As(err, &mc) {
		t.Fatalf("expected MissingConfigurationError, got %v", err)
	}
	if mc.Artifact != domain.ArtifactSet {
		t.Errorf("expected %s, got %s", domain.ArtifactSet, mc.Artifact)
	}
}

func TestLoad_MissingBlob(t *testing.T) {
	s := newMemStore()
	r := New(s, "p")
	if err := r.Save(context.Background(), testSet(t, "gen-1")); err != nil {
		t.Fatal(err)
	}
	delete(s.data, "p/gen-1/scaler_params.csv")

	_, err := r.Load(context.Background())
	var mc *domain.MissingConfigurationError
	if !errors.As(err, &mc) {
		t.Fatalf("expected MissingConfigurationError, got %v", err)
	}
	if mc.Artifact != domain.ArtifactNormalization {
		t.Errorf("expected %s, got %s", domain.ArtifactNormalization, mc.Artifact)
	}
}

func TestLoad_GenerationMismatch(t *testing.T) {
	s := newMemStore()
	r := New(s, "")
	ctx := context.Background()
	if err := r.Save(ctx, testSet(t, "gen-1")); err != nil {
		t.Fatal(err)
	}
	s.data["gen-2/scaler_params.csv"] = s.data["gen-1/scaler_params.csv"]
	s.data["gen-2/feature_columns.csv"] = s.data["gen-1/feature_columns.csv"]
	s.data["gen-2/model.json"] = s.data["gen-1/model.json"]
	s.data["gen-2/meta.yaml"] = s.data["gen-1/meta.yaml"]
	s.data["CURRENT"] = []byte("gen-2")

	if _, err := r.Load(ctx); err == nil {
		t.Fatal("expected generation mismatch error")
	}
}
