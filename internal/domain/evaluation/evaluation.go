// Package evaluation provides the hold-out split, cross-validation folds and binary
// classification metrics reported by training runs.
package evaluation

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// ErrSingleClass is returned by ROCAUC when the labels hold only one class.
var ErrSingleClass = errors.New("roc auc needs both classes")

// Split holds row indices of a train/test partition.
type Split struct {
	Train []int
	Test  []int
}

// TrainTestSplit shuffles n row indices with a seeded source and holds out
// ceil(n*ratio) of them for testing, leaving at least one training row.
// The same seed always yields the same split.
func TrainTestSplit(n int, ratio float64, seed uint64) (Split, error) {
	if ratio < 0 || ratio >= 1 {
		return Split{}, fmt.Errorf("test ratio must be in [0, 1), got %v", ratio)
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	perm := r.Perm(n)
	nTest := int(math.Ceil(float64(n) * ratio))
	if nTest >= n {
		nTest = max(n-1, 0)
	}
	return Split{Train: perm[nTest:], Test: perm[:nTest]}, nil
}

// Report summarizes binary classification quality (labels 0/1, positive class 1).
type Report struct {
	Accuracy       float64 `json:"accuracy" yaml:"accuracy"`
	Precision      float64 `json:"precision" yaml:"precision"`
	Recall         float64 `json:"recall" yaml:"recall"`
	F1             float64 `json:"f1" yaml:"f1"`
	TruePositives  int     `json:"true_positives" yaml:"true_positives"`
	FalsePositives int     `json:"false_positives" yaml:"false_positives"`
	TrueNegatives  int     `json:"true_negatives" yaml:"true_negatives"`
	FalseNegatives int     `json:"false_negatives" yaml:"false_negatives"`
	Samples        int     `json:"samples" yaml:"samples"`

	// ROCAUC is the area under the ROC curve of the held-out probabilities.
	ROCAUC float64 `json:"roc_auc" yaml:"roc_auc"`

	// Cross-validated accuracy on the training rows; zero when CVFolds is 0.
	CVFolds        int     `json:"cv_folds" yaml:"cv_folds"`
	CVAccuracyMean float64 `json:"cv_accuracy_mean" yaml:"cv_accuracy_mean"`
	CVAccuracyStd  float64 `json:"cv_accuracy_std" yaml:"cv_accuracy_std"`
}

// Evaluate computes a Report. yTrue and yPred must have equal length.
func Evaluate(yTrue, yPred []int) (Report, error) {
	if len(yTrue) != len(yPred) {
		return Report{}, fmt.Errorf("%d labels for %d predictions", len(yTrue), len(yPred))
	}
	var r Report
	r.Samples = len(yTrue)
	for i := range yTrue {
		switch {
		case yPred[i] == 1 && yTrue[i] == 1:
			r.TruePositives++
		case yPred[i] == 1:
			r.FalsePositives++
		case yTrue[i] == 1:
			r.FalseNegatives++
		default:
			r.TrueNegatives++
		}
	}
	if r.Samples > 0 {
		r.Accuracy = float64(r.TruePositives+r.TrueNegatives) / float64(r.Samples)
	}
	if tp, fp := r.TruePositives, r.FalsePositives; tp+fp > 0 {
		r.Precision = float64(tp) / float64(tp+fp)
	}
	if tp, fn := r.TruePositives, r.FalseNegatives; tp+fn > 0 {
		r.Recall = float64(tp) / float64(tp+fn)
	}
	if r.Precision+r.Recall > 0 {
		r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
	}
	return r, nil
}

// ROCAUC computes the area under the ROC curve as the Mann-Whitney statistic:
// the probability that a random positive scores above a random negative, ties counting half.
func ROCAUC(yTrue []int, scores []float64) (float64, error) {
	if len(yTrue) != len(scores) {
		return 0, fmt.Errorf("%d labels for %d scores", len(yTrue), len(scores))
	}
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		switch {
		case scores[a] < scores[b]:
			return -1
		case scores[a] > scores[b]:
			return 1
		}
		return 0
	})

	// Average ranks (1-based) over tied runs.
	var posRankSum float64
	var nPos, nNeg int
	for i := 0; i < len(order); {
		j := i
		for j < len(order) && scores[order[j]] == scores[order[i]] {
			j++
		}
		rank := float64(i+j+1) / 2
		for _, idx := range order[i:j] {
			if yTrue[idx] == 1 {
				posRankSum += rank
				nPos++
			} else {
				nNeg++
			}
		}
		i = j
	}
	if nPos == 0 || nNeg == 0 {
		return 0, ErrSingleClass
	}
	u := posRankSum - float64(nPos*(nPos+1))/2
	return u / float64(nPos*nNeg), nil
}

// StratifiedKFold partitions the rows of y into k folds without shuffling.
// Rows are grouped by class and dealt to the folds in turn, so every fold keeps
// the class ratio and none is empty. Split.Test is the fold and Split.Train the
// remaining rows, both in ascending order.
func StratifiedKFold(y []int, k int) ([]Split, error) {
	if k < 2 {
		return nil, fmt.Errorf("k-fold needs at least 2 folds, got %d", k)
	}
	if len(y) < k {
		return nil, fmt.Errorf("%d rows cannot fill %d folds", len(y), k)
	}
	byClass := make([]int, len(y))
	for i := range byClass {
		byClass[i] = i
	}
	slices.SortStableFunc(byClass, func(a, b int) int { return y[a] - y[b] })
	fold := make([]int, len(y))
	for pos, i := range byClass {
		fold[i] = pos % k
	}

	splits := make([]Split, k)
	for i, f := range fold {
		for j := range splits {
			if j == f {
				splits[j].Test = append(splits[j].Test, i)
			} else {
				splits[j].Train = append(splits[j].Train, i)
			}
		}
	}
	return splits, nil
}

// MeanStd returns the mean and population standard deviation of scores.
func MeanStd(scores []float64) (mean, std float64) {
	if len(scores) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(scores, nil)
}
