package inference

import (
	"context"
	"fmt"
	"time"

	"github.com/samcharles93/chimei/internal/vocab"
)

// Decoder turns a recorded index sequence into text.
type Decoder interface {
	Decode(indices []int) (string, error)
}

// Result is one finished name.
type Result struct {
	Name   string
	Tokens []int
	Stats  Stats
}

// Generator produces a single name by sampling one token at a time from a
// sliding context window until an accepted terminator.
type Generator struct {
	Engine    Engine
	Sampler   TokenSampler
	Vocab     Decoder
	BlockSize int

	// MaxSteps bounds the number of inference calls for one name. Zero
	// means unbounded.
	MaxSteps int
}

// Generate runs the sampling loop for one name. Every inference call sees a
// window of exactly BlockSize indices. A terminator is recorded only when it
// ends the name; early terminators slide into the window but are otherwise
// ignored and sampling resumes.
func (g *Generator) Generate(ctx context.Context) (Result, error) {
	var stats Stats
	start := time.Now()

	blockSize := g.BlockSize
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	window := make([]int64, blockSize)
	for i := range window {
		window[i] = vocab.Terminator
	}
	out := make([]int, 0, 16)

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if g.MaxSteps > 0 && stats.Steps >= g.MaxSteps {
			return Result{}, fmt.Errorf("%w: %d steps without an accepted terminator", ErrStepLimit, stats.Steps)
		}

		logitsVec, err := safeInfer(ctx, g.Engine, window)
		if err != nil {
			return Result{}, fmt.Errorf("%w: step %d: %w", ErrInference, stats.Steps, err)
		}
		stats.Steps++

		ix, err := safeSample(g.Sampler, logitsVec)
		if err != nil {
			return Result{}, err
		}

		copy(window, window[1:])
		window[len(window)-1] = int64(ix)

		if ix == vocab.Terminator {
			if acceptTerminator(len(out)) {
				break
			}
			stats.RejectedTerminators++
			continue
		}
		out = append(out, ix)
	}

	name, err := g.Vocab.Decode(out)
	if err != nil {
		return Result{}, fmt.Errorf("decode: %w", err)
	}
	stats.Tokens = len(out)
	stats.Duration = time.Since(start)
	return Result{Name: name, Tokens: out, Stats: stats}, nil
}

func safeInfer(ctx context.Context, e Engine, window []int64) (logits []float32, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in Infer: %v", rec)
		}
	}()
	return e.Infer(ctx, window)
}

func safeSample(s TokenSampler, logits []float32) (ix int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in Sample: %v", rec)
		}
	}()
	return s.Sample(logits), nil
}
