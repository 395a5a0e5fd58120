package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kailas-cloud/cardiofeat/internal/db"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "artifacts"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestSetGet(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "gen/scaler_params.csv", []byte("column,mean,scale\n")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, "gen/scaler_params.csv")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "column,mean,scale\n" {
		t.Errorf("unexpected value %q", got)
	}
}

func TestSet_Overwrite(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, v := range []string{"first", "second"} {
		if err := s.Set(ctx, "CURRENT", []byte(v)); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	got, _ := s.Get(ctx, "CURRENT")
	if string(got) != "second" {
		t.Errorf("expected second, got %q", got)
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected no leftover temp files, found %d entries", len(entries))
	}
}

func TestGet_NotFound(t *testing.T) {
	s := newStore(t)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestInvalidKeys(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	for _, key := range []string{"", "/etc/passwd", "../escape", "a/../../b", ".", `a\b`} {
		if err := s.Set(ctx, key, []byte("x")); !errors.Is(err, db.ErrInvalidKey) {
			t.Errorf("Set(%q): expected ErrInvalidKey, got %v", key, err)
		}
		if _, err := s.Get(ctx, key); !errors.Is(err, db.ErrInvalidKey) {
			t.Errorf("Get(%q): expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestPing(t *testing.T) {
	s := newStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := s.WaitForReady(context.Background(), time.Second); err != nil {
		t.Fatalf("WaitForReady: %v", err)
	}

	if err := os.RemoveAll(s.root); err != nil {
		t.Fatal(err)
	}
	if err := s.Ping(context.Background()); err == nil {
		t.Error("expected error after root removal")
	}
}

func TestNewStore_EmptyRoot(t *testing.T) {
	if _, err := NewStore(""); err == nil {
		t.Error("expected error")
	}
}

func TestCancelledContext(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Set(ctx, "k", []byte("v")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
