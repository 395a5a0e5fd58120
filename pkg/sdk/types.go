package cardiofeat

import (
	"time"

	"github.com/kailas-cloud/cardiofeat/internal/domain/evaluation"
	domprediction "github.com/kailas-cloud/cardiofeat/internal/domain/prediction"
	"github.com/kailas-cloud/cardiofeat/internal/domain/record"
	predictionuc "github.com/kailas-cloud/cardiofeat/internal/usecase/prediction"
	traininguc "github.com/kailas-cloud/cardiofeat/internal/usecase/training"
)

// Patient is one raw record. Categorical fields carry the dataset's integer codes.
type Patient = record.Patient

// Prediction is the classifier output for one patient.
type Prediction struct {
	Label       int     // 1 = heart disease
	Probability float64 // p(label = 1)
	Risk        string  // "low", "moderate", "high"
}

// FeatureMatrix is the encoded, standardized and aligned feature table.
type FeatureMatrix struct {
	Columns []string
	Rows    [][]float64
}

// Metrics is the held-out evaluation of a training run plus cross-validated accuracy.
type Metrics struct {
	Accuracy       float64
	Precision      float64
	Recall         float64
	F1             float64
	TruePositives  int
	FalsePositives int
	TrueNegatives  int
	FalseNegatives int
	Samples        int
	ROCAUC         float64
	CVFolds        int
	CVAccuracyMean float64
	CVAccuracyStd  float64
}

// TrainResult summarizes a published training run.
type TrainResult struct {
	Generation string
	TrainedAt  time.Time
	Features   int
	TrainRows  int
	TestRows   int
	Metrics    Metrics
}

// Schema describes the generation currently served.
type Schema struct {
	Generation      string
	TrainedAt       time.Time
	UniverseVersion string
	Columns         []string
	NumericColumns  []string
	Metrics         Metrics
}

func metricsFromReport(r evaluation.Report) Metrics {
	return Metrics{
		Accuracy:       r.Accuracy,
		Precision:      r.Precision,
		Recall:         r.Recall,
		F1:             r.F1,
		TruePositives:  r.TruePositives,
		FalsePositives: r.FalsePositives,
		TrueNegatives:  r.TrueNegatives,
		FalseNegatives: r.FalseNegatives,
		Samples:        r.Samples,
		ROCAUC:         r.ROCAUC,
		CVFolds:        r.CVFolds,
		CVAccuracyMean: r.CVAccuracyMean,
		CVAccuracyStd:  r.CVAccuracyStd,
	}
}

func trainResultFromDomain(r traininguc.Result) TrainResult {
	return TrainResult{
		Generation: r.Generation,
		TrainedAt:  r.TrainedAt,
		Features:   r.Features,
		TrainRows:  r.TrainRows,
		TestRows:   r.TestRows,
		Metrics:    metricsFromReport(r.Metrics),
	}
}

func predictionsFromDomain(ps []domprediction.Prediction) []Prediction {
	out := make([]Prediction, len(ps))
	for i, p := range ps {
		out[i] = Prediction{Label: p.Label(), Probability: p.Probability(), Risk: string(p.Risk())}
	}
	return out
}

func schemaFromDomain(s predictionuc.Schema) Schema {
	return Schema{
		Generation:      s.Generation,
		TrainedAt:       s.TrainedAt,
		UniverseVersion: s.UniverseVersion,
		Columns:         s.Columns,
		NumericColumns:  s.NumericColumns,
		Metrics:         metricsFromReport(s.Metrics),
	}
}
