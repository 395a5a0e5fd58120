package evaluation

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestTrainTestSplit(t *testing.T) {
	s, err := TrainTestSplit(10, 0.2, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Test) != 2 || len(s.Train) != 8 {
		t.Fatalf("sizes = %d/%d, want 8/2", len(s.Train), len(s.Test))
	}

	all := append(slices.Clone(s.Train), s.Test...)
	slices.Sort(all)
	for i, v := range all {
		if v != i {
			t.Fatalf("split is not a partition of 0..9: %v", all)
		}
	}

	again, _ := TrainTestSplit(10, 0.2, 42)
	if !slices.Equal(s.Test, again.Test) || !slices.Equal(s.Train, again.Train) {
		t.Error("same seed produced a different split")
	}
}

func TestTrainTestSplit_InvalidRatio(t *testing.T) {
	for _, r := range []float64{-0.1, 1, 2} {
		if _, err := TrainTestSplit(10, r, 1); err == nil {
			t.Errorf("ratio %v: expected error", r)
		}
	}
}

func TestEvaluate(t *testing.T) {
	yTrue := []int{1, 1, 0, 0, 1, 0}
	yPred := []int{1, 0, 0, 1, 1, 0}

	r, err := Evaluate(yTrue, yPred)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TruePositives != 2 || r.FalsePositives != 1 || r.FalseNegatives != 1 || r.TrueNegatives != 2 {
		t.Fatalf("confusion = %+v", r)
	}
	if math.Abs(r.Accuracy-4.0/6.0) > 1e-12 {
		t.Errorf("Accuracy = %v", r.Accuracy)
	}
	if math.Abs(r.Precision-2.0/3.0) > 1e-12 || math.Abs(r.Recall-2.0/3.0) > 1e-12 {
		t.Errorf("Precision/Recall = %v/%v", r.Precision, r.Recall)
	}
	if math.Abs(r.F1-2.0/3.0) > 1e-12 {
		t.Errorf("F1 = %v", r.F1)
	}
}

func TestEvaluate_NoPositives(t *testing.T) {
	r, err := Evaluate([]int{0, 0}, []int{0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Accuracy != 1 || r.Precision != 0 || r.Recall != 0 || r.F1 != 0 {
		t.Errorf("report = %+v", r)
	}
}

func TestEvaluate_LengthMismatch(t *testing.T) {
	if _, err := Evaluate([]int{1}, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestTrainTestSplit_RoundsTestCountUp(t *testing.T) {
	tests := []struct {
		n, train, test int
		ratio          float64
	}{
		{n: 11, ratio: 0.2, train: 8, test: 3},
		{n: 300, ratio: 0.2, train: 240, test: 60},
		{n: 3, ratio: 0.5, train: 1, test: 2},
		{n: 1, ratio: 0.2, train: 1, test: 0},
		{n: 10, ratio: 0, train: 10, test: 0},
	}
	for _, tt := range tests {
		s, err := TrainTestSplit(tt.n, tt.ratio, 42)
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", tt.n, err)
		}
		if len(s.Train) != tt.train || len(s.Test) != tt.test {
			t.Errorf("n=%d ratio=%v: sizes = %d/%d, want %d/%d",
				tt.n, tt.ratio, len(s.Train), len(s.Test), tt.train, tt.test)
		}
	}
}

func TestROCAUC(t *testing.T) {
	tests := []struct {
		name   string
		y      []int
		scores []float64
		want   float64
	}{
		{"perfect", []int{0, 0, 1, 1}, []float64{0.1, 0.2, 0.8, 0.9}, 1},
		{"inverted", []int{1, 1, 0, 0}, []float64{0.1, 0.2, 0.8, 0.9}, 0},
		{"one swap", []int{0, 0, 1, 1}, []float64{0.1, 0.4, 0.35, 0.8}, 0.75},
		{"all tied", []int{0, 1, 0, 1}, []float64{0.5, 0.5, 0.5, 0.5}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ROCAUC(tt.y, tt.scores)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("ROCAUC = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestROCAUC_Errors(t *testing.T) {
	if _, err := ROCAUC([]int{1, 1}, []float64{0.2, 0.9}); !errors.Is(err, ErrSingleClass) {
		t.Errorf("single class: got %v, want ErrSingleClass", err)
	}
	if _, err := ROCAUC([]int{1}, nil); err == nil {
		t.Error("length mismatch: expected error")
	}
}

func TestStratifiedKFold(t *testing.T) {
	y := []int{1, 0, 1, 0, 0, 1, 0, 0, 1, 0}
	splits, err := StratifiedKFold(y, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(splits) != 5 {
		t.Fatalf("folds = %d, want 5", len(splits))
	}

	seen := make([]int, len(y))
	for i, s := range splits {
		if len(s.Test) != 2 || len(s.Train) != 8 {
			t.Errorf("fold %d sizes = %d/%d, want 8/2", i, len(s.Train), len(s.Test))
		}
		if !slices.IsSorted(s.Test) || !slices.IsSorted(s.Train) {
			t.Errorf("fold %d is not in ascending order", i)
		}
		for _, idx := range s.Test {
			seen[idx]++
			if slices.Contains(s.Train, idx) {
				t.Errorf("fold %d: row %d is in both train and test", i, idx)
			}
		}
	}
	for idx, n := range seen {
		if n != 1 {
			t.Errorf("row %d is tested %d times, want 1", idx, n)
		}
	}

	// 4 positives over 5 folds: no fold holds more than one.
	for i, s := range splits {
		pos := 0
		for _, idx := range s.Test {
			pos += y[idx]
		}
		if pos > 1 {
			t.Errorf("fold %d holds %d positives", i, pos)
		}
	}
}

func TestStratifiedKFold_NoEmptyFold(t *testing.T) {
	splits, err := StratifiedKFold([]int{1, 1, 0, 0, 0}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, s := range splits {
		if len(s.Test) != 1 {
			t.Errorf("fold %d holds %d rows, want 1", i, len(s.Test))
		}
	}
}

func TestStratifiedKFold_Invalid(t *testing.T) {
	if _, err := StratifiedKFold([]int{0, 1, 0}, 1); err == nil {
		t.Error("k=1: expected error")
	}
	if _, err := StratifiedKFold([]int{0, 1}, 5); err == nil {
		t.Error("fewer rows than folds: expected error")
	}
}

func TestMeanStd(t *testing.T) {
	mean, std := MeanStd([]float64{0.8, 0.9, 1.0})
	if math.Abs(mean-0.9) > 1e-12 {
		t.Errorf("mean = %v, want 0.9", mean)
	}
	if math.Abs(std-math.Sqrt(0.02/3)) > 1e-12 {
		t.Errorf("std = %v, want population std", std)
	}
	if m, s := MeanStd(nil); m != 0 || s != 0 {
		t.Errorf("empty = %v/%v, want 0/0", m, s)
	}
}
