package chi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
	logpkg "github.com/kailas-cloud/cardiofeat/internal/logger"
)

// ErrorCode is the machine-readable error identifier returned to clients.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeValidationFailed  ErrorCode = "validation_failed"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeNotFound          ErrorCode = "not_found"
	CodeMethodNotAllowed  ErrorCode = "method_not_allowed"
	CodeModelNotTrained   ErrorCode = "model_not_trained"
	CodeSchemaMismatch    ErrorCode = "schema_mismatch"
	CodeModelIncompatible ErrorCode = "model_incompatible"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		schemaMismatchHandler,
		missingConfigurationHandler,
		sentinelHandler(domain.ErrInvalidRecord, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidUniverse, http.StatusConflict, CodeModelIncompatible),
		sentinelHandler(domain.ErrFeatureWidthMismatch, http.StatusConflict, CodeModelIncompatible),
		sentinelHandler(domain.ErrNormalizationMismatch, http.StatusConflict, CodeModelIncompatible),
	}
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Invalid-record errors carry the offending field and range, which the client needs.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRecord) {
		return err.Error()
	}
	var mc *domain.MissingConfigurationError
	if errors.As(err, &mc) {
		return mc.Error()
	}
	sentinels := []error{
		domain.ErrMissingConfiguration,
		domain.ErrSchemaMismatch,
		domain.ErrInvalidUniverse,
		domain.ErrFeatureWidthMismatch,
		domain.ErrNormalizationMismatch,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func missingConfigurationHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrMissingConfiguration) {
		return false
	}
	writeError(w, http.StatusConflict, CodeModelNotTrained, msg)
	return true
}

// schemaMismatchHandler reports the missing and extra columns found by strict alignment.
func schemaMismatchHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrSchemaMismatch) {
		return false
	}
	var sme *domain.SchemaMismatchError
	if errors.As(err, &sme) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"code":    CodeSchemaMismatch,
			"message": msg,
			"missing": nonNil(sme.Missing),
			"extra":   nonNil(sme.Extra),
		})
		return true
	}
	writeError(w, http.StatusUnprocessableEntity, CodeSchemaMismatch, msg)
	return true
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
