package inference

import "errors"

var (
	// ErrEngineInit marks failures to load or start the model. The core
	// never retries them.
	ErrEngineInit = errors.New("engine initialization failed")
	// ErrInference marks a failed inference call. It aborts the name being
	// generated.
	ErrInference = errors.New("inference failed")
	// ErrInvalidCount is returned for non-positive batch sizes.
	ErrInvalidCount = errors.New("count must be positive")
	// ErrStepLimit is returned when a name exceeds the configured step guard.
	ErrStepLimit = errors.New("step limit reached")
)
