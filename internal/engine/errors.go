package engine

import "errors"

var (
	// ErrValidation marks requests rejected before any computation runs
	// (bad season parameters, unknown mode or strategy). Not retryable
	// without corrected input.
	ErrValidation = errors.New("validation error")

	// ErrDataIntegrity marks inconsistent input data (a game referencing an
	// unknown team, a bracket winner that never played in its slot, a short
	// conference). Fatal for the computation; never silently defaulted.
	ErrDataIntegrity = errors.New("data integrity error")
)
