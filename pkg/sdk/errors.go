package cardiofeat

import "github.com/kailas-cloud/cardiofeat/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrMissingConfiguration  = domain.ErrMissingConfiguration
	ErrSchemaMismatch        = domain.ErrSchemaMismatch
	ErrInvalidRecord         = domain.ErrInvalidRecord
	ErrInvalidUniverse       = domain.ErrInvalidUniverse
	ErrFeatureWidthMismatch  = domain.ErrFeatureWidthMismatch
	ErrNormalizationMismatch = domain.ErrNormalizationMismatch
)

// SchemaMismatchError lists the columns a strict-schema batch lacked or carried in excess.
// Use errors.As() to inspect it.
type SchemaMismatchError = domain.SchemaMismatchError
