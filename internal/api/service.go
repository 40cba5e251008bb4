package api

import (
	"context"
	"math/rand"
	"time"

	"github.com/samcharles93/chimei/internal/inference"
	"github.com/samcharles93/chimei/internal/logger"
)

const (
	DefaultCount = 10
	MaxCount     = 100
)

// Generator is the slice of inference.Orchestrator the API needs.
type Generator interface {
	GenerateNamesSeeded(ctx context.Context, count int, seed int64) ([]string, error)
	EngineState() inference.State
}

type NameService struct {
	gen   Generator
	clock func() time.Time
	seeds func() int64
}

func NewNameService(gen Generator) *NameService {
	return &NameService{
		gen:   gen,
		clock: time.Now,
		seeds: rand.Int63,
	}
}

// CreateNames validates req, runs one batch and formats the names for
// display unless req.Raw is set.
func (s *NameService) CreateNames(ctx context.Context, req *NamesRequest) (*NamesResponse, error) {
	count := DefaultCount
	if req.Count != nil {
		count = *req.Count
	}
	if count <= 0 || count > MaxCount {
		return nil, invalidParam("count", "must be between 1 and %d, got %d", MaxCount, count)
	}
	seed := s.seeds()
	if req.Seed != nil {
		seed = *req.Seed
	}

	start := s.clock()
	names, err := s.gen.GenerateNamesSeeded(ctx, count, seed)
	if err != nil {
		return nil, err
	}
	if !req.Raw {
		names = inference.CapitalizeAll(names)
	}
	elapsed := s.clock().Sub(start)
	logger.FromContext(ctx).Debug("generated names", "count", len(names), "seed", seed, "elapsed", elapsed)

	return &NamesResponse{
		ID:      newNamesID(),
		Object:  "name.list",
		Created: start.Unix(),
		Seed:    seed,
		Names:   names,
		Usage: &NamesUsage{
			Requested:  count,
			Returned:   len(names),
			DurationMS: elapsed.Milliseconds(),
		},
	}, nil
}

// EngineState reports the session lifecycle stage.
func (s *NameService) EngineState() inference.State {
	return s.gen.EngineState()
}
