package features

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
	"github.com/kailas-cloud/cardiofeat/internal/metrics"
)

// InstrumentedObserver counts reconciliation events in Prometheus and logs them.
// Unrecognized categories are warnings; fills and drops are expected drift and log at debug.
type InstrumentedObserver struct {
	logger *zap.Logger
}

// NewInstrumentedObserver creates an observer backed by the feature metrics.
func NewInstrumentedObserver(logger *zap.Logger) *InstrumentedObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedObserver{logger: logger}
}

// UnrecognizedCategory records codes ignored by the encoder.
func (o *InstrumentedObserver) UnrecognizedCategory(w domain.UnrecognizedCategoryWarning) {
	metrics.UnrecognizedCategoriesTotal.WithLabelValues(w.Column).Add(float64(w.Rows))
	o.logger.Warn("Unrecognized category ignored",
		zap.String("column", w.Column),
		zap.Float64("code", w.Code),
		zap.Int("rows", w.Rows),
	)
}

// ColumnFilled records a reference column zero-filled by the aligner.
func (o *InstrumentedObserver) ColumnFilled(column string) {
	metrics.ColumnsFilledTotal.WithLabelValues(column).Inc()
	o.logger.Debug("Reference column zero-filled", zap.String("column", column))
}

// ColumnDropped records a batch column discarded by the aligner.
func (o *InstrumentedObserver) ColumnDropped(column string) {
	metrics.ColumnsDroppedTotal.WithLabelValues(column).Inc()
	o.logger.Debug("Extra column dropped", zap.String("column", column))
}
