package health

import "context"

// StorePinger checks artifact store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// ModelChecker reports whether a model generation is loaded.
type ModelChecker interface {
	Ready() bool
}
