package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMissingConfiguration signals that inference was requested before a training run
	// persisted normalization parameters and the reference column list.
	ErrMissingConfiguration = errors.New("model not trained")
	// ErrSchemaMismatch signals that a batch does not conform to the reference column list.
	// Only returned in strict schema mode.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrInvalidRecord signals malformed raw input (missing raw column, bad value).
	ErrInvalidRecord = errors.New("invalid record")
	// ErrInvalidUniverse signals an invalid category universe definition.
	ErrInvalidUniverse = errors.New("invalid category universe")
	// ErrFeatureWidthMismatch signals a matrix whose width differs from the classifier's.
	ErrFeatureWidthMismatch = errors.New("feature width mismatch")
	// ErrNormalizationMismatch signals persisted normalization parameters that cover a
	// different column set than the configured numeric columns.
	ErrNormalizationMismatch = errors.New("normalization columns mismatch")
)

// Artifact names used in MissingConfigurationError.
const (
	ArtifactNormalization = "normalization_parameters"
	ArtifactReference     = "reference_columns"
	ArtifactModel         = "model"
	ArtifactSet           = "artifact_set"
)

// MissingConfigurationError wraps ErrMissingConfiguration with the missing artifact name.
type MissingConfigurationError struct {
	Artifact string
}

func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s missing", ErrMissingConfiguration.Error(), e.Artifact)
}

func (e *MissingConfigurationError) Unwrap() error { return ErrMissingConfiguration }

// NewMissingConfiguration creates a missing configuration error for the given artifact.
func NewMissingConfiguration(artifact string) error {
	return &MissingConfigurationError{Artifact: artifact}
}

// SchemaMismatchError wraps ErrSchemaMismatch with the columns that would have been
// zero-filled (Missing) or dropped (Extra) by lenient alignment.
type SchemaMismatchError struct {
	Missing []string
	Extra   []string
}

func (e *SchemaMismatchError) Error() string {
	var b strings.Builder
	b.WriteString(ErrSchemaMismatch.Error())
	if len(e.Missing) > 0 {
		b.WriteString(": missing [" + strings.Join(e.Missing, ", ") + "]")
	}
	if len(e.Extra) > 0 {
		b.WriteString(": extra [" + strings.Join(e.Extra, ", ") + "]")
	}
	return b.String()
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

// UnrecognizedCategoryWarning describes category codes outside the declared universe.
// It is never returned from a transform; it is reported to observers and logged.
type UnrecognizedCategoryWarning struct {
	Column string
	Code   float64
	Rows   int
}

func (w UnrecognizedCategoryWarning) Error() string {
	return "unrecognized category " + strconv.FormatFloat(w.Code, 'f', -1, 64) +
		" in column " + w.Column + " (" + strconv.Itoa(w.Rows) + " rows)"
}
