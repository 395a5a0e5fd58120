package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockStorePinger struct {
	err error
}

func (m *mockStorePinger) Ping(_ context.Context) error { return m.err }

type mockModelChecker struct {
	ready bool
}

func (m *mockModelChecker) Ready() bool { return m.ready }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockStorePinger{}, &mockModelChecker{ready: true})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["artifact_store"] != CheckOK {
		t.Errorf("expected artifact_store %q, got %q", CheckOK, r.Checks["artifact_store"])
	}
	if r.Checks["model"] != CheckOK {
		t.Errorf("expected model %q, got %q", CheckOK, r.Checks["model"])
	}
}

func TestCheck_StoreError(t *testing.T) {
	svc := New(&mockStorePinger{err: errors.New("conn refused")}, &mockModelChecker{ready: true})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["artifact_store"] != CheckError {
		t.Errorf("expected artifact_store %q, got %q", CheckError, r.Checks["artifact_store"])
	}
}

func TestCheck_NotTrained(t *testing.T) {
	svc := New(&mockStorePinger{}, &mockModelChecker{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["model"] != CheckNotTrained {
		t.Errorf("expected model %q, got %q", CheckNotTrained, r.Checks["model"])
	}
}

func TestCheck_AllFail(t *testing.T) {
	svc := New(&mockStorePinger{err: errors.New("down")}, &mockModelChecker{})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_NoModelChecker(t *testing.T) {
	svc := New(&mockStorePinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["model"]; ok {
		t.Error("model check should be absent")
	}
}
