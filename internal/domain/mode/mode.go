package mode

// Mode selects which artifacts the feature pipeline reads and which it writes.
type Mode string

// Pipeline mode constants.
const (
	// Training fits normalization parameters, captures the reference column list and persists both.
	Training Mode = "training"
	// Inference applies previously persisted artifacts and has no side effects.
	Inference Mode = "inference"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Training || m == Inference
}
