package prediction

import "testing"

func TestRisk(t *testing.T) {
	tests := []struct {
		p    float64
		want Risk
	}{
		{0, RiskLow},
		{0.29, RiskLow},
		{0.3, RiskModerate},
		{0.69, RiskModerate},
		{0.7, RiskHigh},
		{1, RiskHigh},
	}
	for _, tc := range tests {
		if got := New(0, tc.p).Risk(); got != tc.want {
			t.Errorf("Risk(%v) = %q, want %q", tc.p, got, tc.want)
		}
	}
}

func TestAccessors(t *testing.T) {
	p := New(1, 0.82)
	if p.Label() != 1 || p.Probability() != 0.82 {
		t.Errorf("got label=%d probability=%v", p.Label(), p.Probability())
	}
}
