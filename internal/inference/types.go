package inference

import (
	"context"
	"time"
)

// DefaultBlockSize is the context length of the bundled model.
const DefaultBlockSize = 10

// Engine is the numeric model. Infer receives exactly BlockSize token
// indices, shaped as a single [1, BlockSize] int64 batch, and returns one
// unnormalised score per vocabulary entry. Implementations must allow
// concurrent Infer calls when the orchestrator runs more than one worker.
type Engine interface {
	Infer(ctx context.Context, window []int64) ([]float32, error)
	VocabSize() int
	Close() error
}

// Loader constructs an Engine. It is called at most once per successful
// Session start.
type Loader func(ctx context.Context) (Engine, error)

// TokenSampler picks the next token index from raw logits.
type TokenSampler interface {
	Sample(logits []float32) int
}

// Stats describes the generation of one name.
type Stats struct {
	Steps               int
	RejectedTerminators int
	Tokens              int
	Duration            time.Duration
}

// Observer receives generation events. Implementations must be safe for
// concurrent use.
type Observer interface {
	EngineLoaded(d time.Duration, err error)
	NameGenerated(stats Stats)
	InferenceFailed()
}

type nopObserver struct{}

func (nopObserver) EngineLoaded(time.Duration, error) {}
func (nopObserver) NameGenerated(Stats)                {}
func (nopObserver) InferenceFailed()                   {}
