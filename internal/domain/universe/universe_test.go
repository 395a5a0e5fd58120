package universe

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
)

func TestNew_Valid(t *testing.T) {
	u, err := New("v1",
		Entry{Column: "chest_pain", Codes: []int{1, 2, 3, 4}},
		Entry{Column: "resting_ecg", Codes: []int{0, 1, 2}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Version() != "v1" {
		t.Errorf("Version() = %q", u.Version())
	}
	if got := strings.Join(u.Columns(), ","); got != "chest_pain,resting_ecg" {
		t.Errorf("Columns() = %s", got)
	}
	want := "chest_pain_1,chest_pain_2,chest_pain_3,chest_pain_4,resting_ecg_0,resting_ecg_1,resting_ecg_2"
	if got := strings.Join(u.IndicatorColumns(), ","); got != want {
		t.Errorf("IndicatorColumns() = %s, want %s", got, want)
	}
	if !u.Contains("resting_ecg") || u.Contains("age") {
		t.Error("Contains mismatch")
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		version string
		entries []Entry
	}{
		{"no version", "", []Entry{{Column: "a", Codes: []int{1}}}},
		{"empty column", "v", []Entry{{Column: "", Codes: []int{1}}}},
		{"duplicate column", "v", []Entry{{Column: "a", Codes: []int{1}}, {Column: "a", Codes: []int{2}}}},
		{"no codes", "v", []Entry{{Column: "a"}}},
		{"duplicate code", "v", []Entry{{Column: "a", Codes: []int{1, 1}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.version, tc.entries...)
			if !errors.Is(err, domain.ErrInvalidUniverse) {
				t.Fatalf("expected ErrInvalidUniverse, got %v", err)
			}
		})
	}
}

func TestCodes_DefensiveCopy(t *testing.T) {
	codes := []int{1, 2}
	u := MustNew("v", Entry{Column: "a", Codes: codes})
	codes[0] = 42

	got, ok := u.Codes("a")
	if !ok || got[0] != 1 {
		t.Fatalf("universe mutated through input slice: %v", got)
	}
	got[1] = 99
	again, _ := u.Codes("a")
	if again[1] != 2 {
		t.Fatalf("universe mutated through Codes result: %v", again)
	}
}

func TestIndicatorName(t *testing.T) {
	if got := IndicatorName("st_slope", 3); got != "st_slope_3" {
		t.Errorf("IndicatorName = %q", got)
	}
	if got := IndicatorName("resting_ecg", 0); got != "resting_ecg_0" {
		t.Errorf("IndicatorName = %q", got)
	}
}
