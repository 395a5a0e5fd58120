// Package record defines the raw heart-disease record schema consumed by the feature pipeline.
package record

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
	"github.com/kailas-cloud/cardiofeat/internal/domain/table"
	"github.com/kailas-cloud/cardiofeat/internal/domain/universe"
)

// Canonical raw column names.
const (
	Age               = "age"
	Sex               = "sex"
	ChestPain         = "chest_pain"
	RestingBP         = "resting_bp"
	Cholesterol       = "cholesterol"
	FastingBloodSugar = "fasting_blood_sugar"
	RestingECG        = "resting_ecg"
	MaxHeartRate      = "max_heart_rate"
	ExerciseAngina    = "exercise_angina"
	Oldpeak           = "oldpeak"
	STSlope           = "st_slope"

	// Target is the binary label column of training datasets.
	Target = "target"
)

// DefaultUniverseVersion tags the compiled-in category universe.
const DefaultUniverseVersion = "heart-v1"

// Columns returns the raw feature columns in dataset order.
func Columns() []string {
	return []string{
		Age, Sex, ChestPain, RestingBP, Cholesterol, FastingBloodSugar,
		RestingECG, MaxHeartRate, ExerciseAngina, Oldpeak, STSlope,
	}
}

// NumericColumns returns the columns standardized by the normalizer.
func NumericColumns() []string {
	return []string{Age, RestingBP, Cholesterol, MaxHeartRate, Oldpeak}
}

// DefaultUniverse returns the compiled-in category universe.
func DefaultUniverse() universe.Universe {
	return universe.MustNew(DefaultUniverseVersion,
		universe.Entry{Column: ChestPain, Codes: []int{1, 2, 3, 4}},
		universe.Entry{Column: RestingECG, Codes: []int{0, 1, 2}},
		universe.Entry{Column: STSlope, Codes: []int{1, 2, 3}},
	)
}

// datasetAliases maps headers of the published dataset to canonical names.
var datasetAliases = map[string]string{
	"chest pain type":     ChestPain,
	"resting bp s":        RestingBP,
	"fasting blood sugar": FastingBloodSugar,
	"resting ecg":         RestingECG,
	"max heart rate":      MaxHeartRate,
	"exercise angina":     ExerciseAngina,
	"st slope":            STSlope,
}

// CanonicalColumn maps a dataset header to its canonical column name.
// Unknown headers are lowercased with spaces replaced by underscores.
func CanonicalColumn(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	if c, ok := datasetAliases[h]; ok {
		return c
	}
	return strings.ReplaceAll(h, " ", "_")
}

// Patient is a single raw record as submitted through a form or API call.
type Patient struct {
	Age               float64 `json:"age"`
	Sex               float64 `json:"sex"`
	ChestPain         float64 `json:"chest_pain"`
	RestingBP         float64 `json:"resting_bp"`
	Cholesterol       float64 `json:"cholesterol"`
	FastingBloodSugar float64 `json:"fasting_blood_sugar"`
	RestingECG        float64 `json:"resting_ecg"`
	MaxHeartRate      float64 `json:"max_heart_rate"`
	ExerciseAngina    float64 `json:"exercise_angina"`
	Oldpeak           float64 `json:"oldpeak"`
	STSlope           float64 `json:"st_slope"`
}

type bound struct {
	column   string
	min, max float64
}

// Validate checks form-level ranges. Categorical codes are not checked here:
// out-of-universe codes are tolerated by the encoder.
func (p Patient) Validate() error {
	bounds := []struct {
		bound
		v float64
	}{
		{bound{Age, 18, 100}, p.Age},
		{bound{RestingBP, 90, 200}, p.RestingBP},
		{bound{Cholesterol, 100, 600}, p.Cholesterol},
		{bound{MaxHeartRate, 60, 220}, p.MaxHeartRate},
		{bound{Oldpeak, 0, 10}, p.Oldpeak},
		{bound{Sex, 0, 1}, p.Sex},
		{bound{FastingBloodSugar, 0, 1}, p.FastingBloodSugar},
		{bound{ExerciseAngina, 0, 1}, p.ExerciseAngina},
	}
	for _, b := range bounds {
		if b.v < b.min || b.v > b.max {
			return fmt.Errorf("%w: %s must be between %v and %v, got %v",
				domain.ErrInvalidRecord, b.column, b.min, b.max, b.v)
		}
	}
	return nil
}

// fields returns pointers to the patient's values in Columns order.
func (p *Patient) fields() []*float64 {
	return []*float64{
		&p.Age, &p.Sex, &p.ChestPain, &p.RestingBP, &p.Cholesterol, &p.FastingBloodSugar,
		&p.RestingECG, &p.MaxHeartRate, &p.ExerciseAngina, &p.Oldpeak, &p.STSlope,
	}
}

func (p Patient) values() []float64 {
	ptrs := p.fields()
	out := make([]float64, len(ptrs))
	for i, v := range ptrs {
		out[i] = *v
	}
	return out
}

// UnmarshalJSON requires every raw column and rejects unknown fields, so an omitted
// or misspelled column is an invalid record rather than a silent zero.
func (p *Patient) UnmarshalJSON(data []byte) error {
	var m map[string]*float64
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
	}
	cols := Columns()
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if !slices.Contains(cols, k) {
			return fmt.Errorf("%w: unknown field %q", domain.ErrInvalidRecord, k)
		}
	}

	var out Patient
	ptrs := out.fields()
	for i, c := range cols {
		v := m[c]
		if v == nil {
			return fmt.Errorf("%w: %s is required", domain.ErrInvalidRecord, c)
		}
		*ptrs[i] = *v
	}
	*p = out
	return nil
}

// ToTable converts patients to a raw table with the canonical column order.
func ToTable(patients []Patient) (table.Table, error) {
	rows := make([][]float64, len(patients))
	for i, p := range patients {
		rows[i] = p.values()
	}
	t, err := table.New(Columns(), rows)
	if err != nil {
		return table.Table{}, fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
	}
	return t, nil
}

// Batch validates every patient and converts the batch to a raw table.
// The first invalid patient fails the whole batch.
func Batch(patients []Patient) (table.Table, error) {
	if len(patients) == 0 {
		return table.Table{}, fmt.Errorf("%w: at least one record is required", domain.ErrInvalidRecord)
	}
	for i, p := range patients {
		if err := p.Validate(); err != nil {
			return table.Table{}, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return ToTable(patients)
}
