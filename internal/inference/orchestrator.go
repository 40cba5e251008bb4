package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/samcharles93/chimei/internal/logger"
	"github.com/samcharles93/chimei/internal/logits"
)

// FailurePolicy decides what a batch does when one name fails.
type FailurePolicy int

const (
	// FailAbort stops the batch and returns the first error with no names.
	FailAbort FailurePolicy = iota
	// FailSkip logs the failure, drops that name and keeps going. The batch
	// may then return fewer names than requested.
	FailSkip
)

func (p FailurePolicy) String() string {
	if p == FailSkip {
		return "skip"
	}
	return "abort"
}

// ParseFailurePolicy accepts "abort" (or "") and "skip".
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return FailAbort, nil
	case "skip":
		return FailSkip, nil
	default:
		return FailAbort, fmt.Errorf("unknown failure policy %q (expected abort or skip)", s)
	}
}

// Config tunes batch generation.
type Config struct {
	BlockSize   int
	Seed        int64
	Temperature float32
	Workers     int
	MaxSteps    int
	OnFailure   FailurePolicy
}

// SamplerFactory returns the sampler for the name at position i of a batch
// seeded with seed.
type SamplerFactory func(seed int64, i int) TokenSampler

// Orchestrator produces batches of names over a shared Session.
type Orchestrator struct {
	session    *Session
	vocab      Decoder
	cfg        Config
	newSampler SamplerFactory
	observer   Observer
}

// NewOrchestrator wires a session and vocabulary. Each name gets its own
// sampler seeded from cfg.Seed plus its position, so a batch is reproducible
// for a fixed seed whatever the worker count.
func NewOrchestrator(session *Session, v Decoder, cfg Config) *Orchestrator {
	if cfg.BlockSize <= 0 {
		cfg.BlockSize = DefaultBlockSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	temp := cfg.Temperature
	return &Orchestrator{
		session: session,
		vocab:   v,
		cfg:     cfg,
		newSampler: func(seed int64, i int) TokenSampler {
			return logits.NewSampler(logits.SamplerConfig{
				Seed:        seed + int64(i),
				Temperature: temp,
			})
		},
		observer: nopObserver{},
	}
}

// SetSamplerFactory replaces the default seeded sampler.
func (o *Orchestrator) SetSamplerFactory(f SamplerFactory) {
	if f != nil {
		o.newSampler = f
	}
}

// SetObserver installs obs for generation events.
func (o *Orchestrator) SetObserver(obs Observer) {
	if obs == nil {
		obs = nopObserver{}
	}
	o.observer = obs
	o.session.SetObserver(obs)
}

// Session returns the shared engine session.
func (o *Orchestrator) Session() *Session { return o.session }

// Config returns the effective configuration.
func (o *Orchestrator) Config() Config { return o.cfg }

// EngineState reports where the shared session is in its lifecycle.
func (o *Orchestrator) EngineState() State { return o.session.State() }

// GenerateNames returns count names in request order using the configured
// seed.
func (o *Orchestrator) GenerateNames(ctx context.Context, count int) ([]string, error) {
	return o.GenerateNamesSeeded(ctx, count, o.cfg.Seed)
}

// GenerateNamesSeeded is GenerateNames with an explicit seed for this batch.
func (o *Orchestrator) GenerateNamesSeeded(ctx context.Context, count int, seed int64) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	engine, err := o.session.Engine(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).With("seed", seed, "count", count)
	results := make([]string, count)
	ok := make([]bool, count)
	run := func(ctx context.Context, i int) error {
		gen := &Generator{
			Engine:    engine,
			Sampler:   o.newSampler(seed, i),
			Vocab:     o.vocab,
			BlockSize: o.cfg.BlockSize,
			MaxSteps:  o.cfg.MaxSteps,
		}
		res, err := gen.Generate(ctx)
		if err != nil {
			if errors.Is(err, ErrInference) {
				o.observer.InferenceFailed()
			}
			if o.cfg.OnFailure == FailSkip && ctx.Err() == nil {
				log.Warn("skipping failed name", "index", i, "error", err)
				return nil
			}
			return fmt.Errorf("name %d: %w", i, err)
		}
		o.observer.NameGenerated(res.Stats)
		results[i] = res.Name
		ok[i] = true
		return nil
	}

	if o.cfg.Workers == 1 {
		for i := 0; i < count; i++ {
			if err := run(ctx, i); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.cfg.Workers)
		for i := 0; i < count; i++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return run(gctx, i)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, count)
	for i, name := range results {
		if ok[i] {
			names = append(names, name)
		}
	}
	return names, nil
}

// Close releases the session's engine.
func (o *Orchestrator) Close() error {
	return o.session.Close()
}
