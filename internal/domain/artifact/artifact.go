// Package artifact describes the complete output of one training run.
package artifact

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/cardiofeat/internal/domain/evaluation"
	"github.com/kailas-cloud/cardiofeat/internal/domain/normalization"
	"github.com/kailas-cloud/cardiofeat/internal/domain/schema"
)

// Set is everything inference needs, written together and replaced wholesale.
type Set struct {
	Generation      string
	TrainedAt       time.Time
	UniverseVersion string
	Params          normalization.Params
	Reference       schema.Reference
	// Model is the serialized classifier; its encoding belongs to the classifier package.
	Model   []byte
	Metrics evaluation.Report
}

// Validate checks that the set is complete enough to serve inference.
func (s Set) Validate() error {
	if s.Generation == "" {
		return fmt.Errorf("artifact generation is required")
	}
	if s.UniverseVersion == "" {
		return fmt.Errorf("artifact universe version is required")
	}
	if s.Params.IsZero() {
		return fmt.Errorf("artifact normalization parameters are empty")
	}
	if s.Reference.IsZero() {
		return fmt.Errorf("artifact reference columns are empty")
	}
	for _, c := range s.Params.Columns() {
		if _, ok := s.Reference.Index(c); !ok {
			return fmt.Errorf("normalized column %s is not in the reference list", c)
		}
	}
	if len(s.Model) == 0 {
		return fmt.Errorf("artifact model is empty")
	}
	return nil
}

// NewGeneration derives a sortable generation id from the training time.
func NewGeneration(t time.Time) string {
	return t.UTC().Format("20060102T150405.000000000Z")
}
