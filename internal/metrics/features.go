package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Feature pipeline Prometheus metrics.
var (
	UnrecognizedCategoriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardiofeat",
			Subsystem: "features",
			Name:      "unrecognized_categories_total",
			Help:      "Rows whose category code is outside the declared universe",
		},
		[]string{"column"},
	)

	ColumnsFilledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardiofeat",
			Subsystem: "features",
			Name:      "columns_filled_total",
			Help:      "Reference columns absent from a batch and zero-filled by alignment",
		},
		[]string{"column"},
	)

	ColumnsDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardiofeat",
			Subsystem: "features",
			Name:      "columns_dropped_total",
			Help:      "Batch columns not in the reference list and dropped by alignment",
		},
		[]string{"column"},
	)

	TransformTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardiofeat",
			Subsystem: "features",
			Name:      "transform_total",
			Help:      "Feature transforms by mode and status",
		},
		[]string{"mode", "status"},
	)

	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardiofeat",
			Name:      "predictions_total",
			Help:      "Predicted rows by label",
		},
		[]string{"label"},
	)

	TrainingRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardiofeat",
			Name:      "training_runs_total",
			Help:      "Training runs by status",
		},
		[]string{"status"},
	)

	ModelTrainedTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cardiofeat",
			Name:      "model_loaded_timestamp_seconds",
			Help:      "Training time of the artifact generation currently served",
		},
	)
)

var registerFeaturesOnce sync.Once

// RegisterFeatureMetrics registers feature pipeline metrics. Safe to call more than once.
func RegisterFeatureMetrics() {
	registerFeaturesOnce.Do(func() {
		prometheus.MustRegister(
			UnrecognizedCategoriesTotal,
			ColumnsFilledTotal,
			ColumnsDroppedTotal,
			TransformTotal,
			PredictionsTotal,
			TrainingRunsTotal,
			ModelTrainedTimestamp,
		)
	})
}
