package prediction

// Risk is a coarse reading of the predicted probability.
type Risk string

// Risk levels.
const (
	RiskLow      Risk = "low"
	RiskModerate Risk = "moderate"
	RiskHigh     Risk = "high"
)

// Risk thresholds on the positive-class probability.
const (
	moderateThreshold = 0.3
	highThreshold     = 0.7
)

// Prediction is the classifier output for a single feature row.
type Prediction struct {
	label       int
	probability float64
}

// New creates a Prediction. label is 0 or 1; probability is p(label=1).
func New(label int, probability float64) Prediction {
	return Prediction{label: label, probability: probability}
}

// Label returns the predicted class (1 = heart disease).
func (p Prediction) Label() int { return p.label }

// Probability returns the positive-class probability in [0, 1].
func (p Prediction) Probability() float64 { return p.probability }

// Risk maps the probability to a risk level.
func (p Prediction) Risk() Risk {
	switch {
	case p.probability >= highThreshold:
		return RiskHigh
	case p.probability >= moderateThreshold:
		return RiskModerate
	default:
		return RiskLow
	}
}
