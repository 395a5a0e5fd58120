package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
	"github.com/kailas-cloud/cardiofeat/internal/domain/evaluation"
	"github.com/kailas-cloud/cardiofeat/internal/domain/record"
	healthuc "github.com/kailas-cloud/cardiofeat/internal/usecase/health"
	predictionuc "github.com/kailas-cloud/cardiofeat/internal/usecase/prediction"
)

const (
	maxBatchSize = 1000
	maxBodyBytes = 4 << 20
)

// Server is the HTTP API over the prediction and health usecases.
type Server struct {
	predictions   *predictionuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(predictions *predictionuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		predictions:   predictions,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Routes mounts every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/predictions", s.Predict)
		r.Post("/features", s.Features)
		r.Get("/schema", s.Schema)
		r.Post("/reload", s.Reload)
	})
}

// --- DTOs ---

// RecordsRequest is the body of prediction and feature requests.
type RecordsRequest struct {
	Records []record.Patient `json:"records"`
}

// PredictionItem is one scored record.
type PredictionItem struct {
	Label       int     `json:"label"`
	Probability float64 `json:"probability"`
	Risk        string  `json:"risk"`
}

// PredictionsResponse is the body of POST /api/v1/predictions.
type PredictionsResponse struct {
	Generation  string           `json:"generation"`
	Predictions []PredictionItem `json:"predictions"`
}

// FeaturesResponse is the body of POST /api/v1/features.
type FeaturesResponse struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

// SchemaResponse is the body of GET /api/v1/schema.
type SchemaResponse struct {
	Generation      string            `json:"generation"`
	TrainedAt       time.Time         `json:"trained_at"`
	UniverseVersion string            `json:"universe_version"`
	Columns         []string          `json:"columns"`
	NumericColumns  []string          `json:"numeric_columns"`
	Metrics         evaluation.Report `json:"metrics"`
}

// ReloadResponse is the body of POST /api/v1/reload.
type ReloadResponse struct {
	Generation string `json:"generation"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// --- Handlers ---

// Predict handles POST /api/v1/predictions.
func (s *Server) Predict(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRecords(w, r)
	if !ok {
		return
	}
	raw, err := record.Batch(req.Records)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	preds, gen, err := s.predictions.Predict(r.Context(), raw)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]PredictionItem, len(preds))
	for i, p := range preds {
		items[i] = PredictionItem{Label: p.Label(), Probability: p.Probability(), Risk: string(p.Risk())}
	}
	writeJSON(w, http.StatusOK, PredictionsResponse{Generation: gen, Predictions: items})
}

// Features handles POST /api/v1/features.
func (s *Server) Features(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRecords(w, r)
	if !ok {
		return
	}
	raw, err := record.Batch(req.Records)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	out, err := s.predictions.Transform(r.Context(), raw)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FeaturesResponse{Columns: out.Columns(), Rows: out.Rows()})
}

// Schema handles GET /api/v1/schema.
func (s *Server) Schema(w http.ResponseWriter, r *http.Request) {
	info, err := s.predictions.Schema()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SchemaResponse{
		Generation:      info.Generation,
		TrainedAt:       info.TrainedAt,
		UniverseVersion: info.UniverseVersion,
		Columns:         info.Columns,
		NumericColumns:  info.NumericColumns,
		Metrics:         info.Metrics,
	})
}

// Reload handles POST /api/v1/reload.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	gen, err := s.predictions.Load(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ReloadResponse{Generation: gen})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) decodeRecords(w http.ResponseWriter, r *http.Request) (RecordsRequest, bool) {
	var req RecordsRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, domain.ErrInvalidRecord) {
			s.handleDomainError(w, r, err)
			return RecordsRequest{}, false
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return RecordsRequest{}, false
	}
	if len(req.Records) == 0 || len(req.Records) > maxBatchSize {
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			fmt.Sprintf("records count must be between 1 and %d", maxBatchSize))
		return RecordsRequest{}, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
