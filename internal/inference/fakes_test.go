package inference

import (
	"context"
	"errors"
	"sync"
	"time"
)

// scriptedSampler returns a fixed sequence of indices, then repeats last.
type scriptedSampler struct {
	seq  []int
	next int
}

func (s *scriptedSampler) Sample([]float32) int {
	if s.next >= len(s.seq) {
		return s.seq[len(s.seq)-1]
	}
	ix := s.seq[s.next]
	s.next++
	return ix
}

// recordingEngine returns uniform logits and records every window it sees.
type recordingEngine struct {
	vocab int

	mu      sync.Mutex
	windows [][]int64
	failAt  int // 1-based call number that fails; 0 never
	calls   int
	closed  bool
}

var errForcedInference = errors.New("forced inference failure")

func (e *recordingEngine) Infer(ctx context.Context, window []int64) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.windows = append(e.windows, append([]int64(nil), window...))
	if e.failAt > 0 && e.calls == e.failAt {
		return nil, errForcedInference
	}
	return make([]float32, e.vocab), nil
}

func (e *recordingEngine) VocabSize() int { return e.vocab }

func (e *recordingEngine) Close() error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	return nil
}

type panicEngine struct{}

func (panicEngine) Infer(context.Context, []int64) ([]float32, error) { panic("boom") }
func (panicEngine) VocabSize() int                                  { return 3 }
func (panicEngine) Close() error                                    { return nil }

// countingObserver tallies events.
type countingObserver struct {
	mu       sync.Mutex
	loads    int
	loadErrs int
	names    int
	failures int
}

func (o *countingObserver) EngineLoaded(_ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loads++
	if err != nil {
		o.loadErrs++
	}
}

func (o *countingObserver) NameGenerated(Stats) {
	o.mu.Lock()
	o.names++
	o.mu.Unlock()
}

func (o *countingObserver) InferenceFailed() {
	o.mu.Lock()
	o.failures++
	o.mu.Unlock()
}
