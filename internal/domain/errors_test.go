package domain

import (
	"errors"
	"testing"
)

func TestMissingConfigurationError_Is(t *testing.T) {
	err := NewMissingConfiguration(ArtifactReference)
	if !errors.Is(err, ErrMissingConfiguration) {
		t.Fatal("expected errors.Is(err, ErrMissingConfiguration)")
	}

	var mce *MissingConfigurationError
	if !errors.As(err, &mce) {
		t.Fatal("expected *MissingConfigurationError")
	}
	if mce.Artifact != ArtifactReference {
		t.Errorf("Artifact = %q, want %q", mce.Artifact, ArtifactReference)
	}

	want := "model not trained: reference_columns missing"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestSchemaMismatchError(t *testing.T) {
	err := error(&SchemaMismatchError{Missing: []string{"a"}, Extra: []string{"b", "c"}})
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatal("expected errors.Is(err, ErrSchemaMismatch)")
	}
	want := "schema mismatch: missing [a]: extra [b, c]"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestUnrecognizedCategoryWarning(t *testing.T) {
	w := UnrecognizedCategoryWarning{Column: "chest_pain", Code: 7, Rows: 2}
	want := "unrecognized category 7 in column chest_pain (2 rows)"
	if w.Error() != want {
		t.Errorf("Error() = %q, want %q", w.Error(), want)
	}
	if errors.Is(w, ErrMissingConfiguration) {
		t.Error("warning must not match ErrMissingConfiguration")
	}
}
