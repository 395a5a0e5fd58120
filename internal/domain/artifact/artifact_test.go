package artifact

import (
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/cardiofeat/internal/domain/normalization"
	"github.com/kailas-cloud/cardiofeat/internal/domain/schema"
)

func validSet(t *testing.T) Set {
	t.Helper()
	p, err := normalization.New([]string{"cholesterol"}, []normalization.Stat{{Mean: 250, Scale: 50}})
	if err != nil {
		t.Fatal(err)
	}
	r, err := schema.NewReference([]string{"cholesterol", "chest_pain_1"})
	if err != nil {
		t.Fatal(err)
	}
	return Set{
		Generation:      "g1",
		UniverseVersion: "heart-v1",
		Params:          p,
		Reference:       r,
		Model:           []byte(`{}`),
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validSet(t).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Incomplete(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Set)
		want   string
	}{
		{"no generation", func(s *Set) { s.Generation = "" }, "generation"},
		{"no universe", func(s *Set) { s.UniverseVersion = "" }, "universe"},
		{"no params", func(s *Set) { s.Params = normalization.Params{} }, "normalization"},
		{"no reference", func(s *Set) { s.Reference = schema.Reference{} }, "reference"},
		{"no model", func(s *Set) { s.Model = nil }, "model"},
		{"param outside reference", func(s *Set) {
			s.Reference, _ = schema.NewReference([]string{"age"})
		}, "not in the reference"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := validSet(t)
			tc.mutate(&s)
			err := s.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestNewGeneration_Sortable(t *testing.T) {
	a := NewGeneration(time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC))
	b := NewGeneration(time.Date(2026, 1, 2, 3, 4, 5, 7, time.UTC))
	if !(a < b) {
		t.Errorf("generations not ordered: %s >= %s", a, b)
	}
	if a != "20260102T030405.000000006Z" {
		t.Errorf("generation = %s", a)
	}
}
