package cardiofeat

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
	"github.com/kailas-cloud/cardiofeat/internal/metrics"
	"github.com/kailas-cloud/cardiofeat/internal/usecase/features"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cardiofeat",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cardiofeat",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	pipeline := []prometheus.Collector{
		metrics.UnrecognizedCategoriesTotal,
		metrics.ColumnsFilledTotal,
		metrics.ColumnsDroppedTotal,
		metrics.TransformTotal,
		metrics.PredictionsTotal,
		metrics.TrainingRunsTotal,
		metrics.ModelTrainedTimestamp,
	}
	for _, c := range pipeline {
		if err := registerOrReuse(reg, &c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("cardiofeat: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("cardiofeat: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK operations and reports
// feature reconciliation events to slog.
type observer struct {
	logger   *slog.Logger
	metrics  *sdkMetrics
	pipeline features.Observer
}

var _ features.Observer = (*observer)(nil)

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{
		logger:   logger,
		metrics:  m,
		pipeline: features.NewInstrumentedObserver(zap.NewNop()),
	}, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger != nil {
		if err != nil {
			o.logger.Warn("operation failed", "op", op, "duration", dur, "error", err)
		} else {
			o.logger.Debug("operation completed", "op", op, "duration", dur)
		}
	}
}

func (o *observer) UnrecognizedCategory(w domain.UnrecognizedCategoryWarning) {
	o.pipeline.UnrecognizedCategory(w)
	if o.logger != nil {
		o.logger.Warn("unrecognized category ignored", "column", w.Column, "code", w.Code, "rows", w.Rows)
	}
}

func (o *observer) ColumnFilled(column string) {
	o.pipeline.ColumnFilled(column)
	if o.logger != nil {
		o.logger.Debug("reference column zero-filled", "column", column)
	}
}

func (o *observer) ColumnDropped(column string) {
	o.pipeline.ColumnDropped(column)
	if o.logger != nil {
		o.logger.Debug("extra column dropped", "column", column)
	}
}
