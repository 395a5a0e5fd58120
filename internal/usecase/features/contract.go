package features

import (
	"context"

	"github.com/kailas-cloud/cardiofeat/internal/domain"
	"github.com/kailas-cloud/cardiofeat/internal/domain/normalization"
	"github.com/kailas-cloud/cardiofeat/internal/domain/schema"
)

// Observer receives the lenient-reconciliation events of the pipeline.
// Unrecognized input and schema drift are reported through separate callbacks.
// Implementations must be safe for concurrent use.
type Observer interface {
	UnrecognizedCategory(w domain.UnrecognizedCategoryWarning)
	ColumnFilled(column string)
	ColumnDropped(column string)
}

// ArtifactSink receives the configuration fitted by a training-mode transform.
type ArtifactSink interface {
	PutFeatures(ctx context.Context, params normalization.Params, ref schema.Reference) error
}

type nopObserver struct{}

func (nopObserver) UnrecognizedCategory(domain.UnrecognizedCategoryWarning) {}
func (nopObserver) ColumnFilled(string)                                      {}
func (nopObserver) ColumnDropped(string)                                     {}

func observerOrNop(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}
