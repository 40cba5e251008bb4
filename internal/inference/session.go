package inference

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/samcharles93/chimei/internal/logger"
)

// State is the lifecycle stage of a Session.
type State int

const (
	Uninitialized State = iota
	Initializing
	Ready
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var errSessionClosed = errors.New("session closed")

// Validator checks a freshly loaded engine before the session exposes it,
// typically against the vocabulary size.
type Validator func(Engine) error

// Session lazily loads an Engine on first use and shares it afterwards.
// Concurrent first callers share a single load. A failed load leaves the
// session Uninitialized so a later call may try again; the session itself
// never retries.
type Session struct {
	load     Loader
	validate Validator
	observer Observer

	group singleflight.Group

	mu     sync.Mutex
	state  State
	engine Engine
}

// NewSession returns an Uninitialized session. validate may be nil.
func NewSession(load Loader, validate Validator) *Session {
	return &Session{
		load:     load,
		validate: validate,
		observer: nopObserver{},
	}
}

// SetObserver installs o to receive load events.
func (s *Session) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	s.mu.Lock()
	s.observer = o
	s.mu.Unlock()
}

// State returns the current lifecycle stage.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Engine returns the loaded engine, loading it first if needed. Errors from
// the loader or validator are wrapped in ErrEngineInit. If ctx ends first,
// Engine returns ctx.Err() and the load carries on for other callers.
func (s *Session) Engine(ctx context.Context) (Engine, error) {
	s.mu.Lock()
	switch s.state {
	case Ready:
		e := s.engine
		s.mu.Unlock()
		return e, nil
	case Closed:
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", ErrEngineInit, errSessionClosed)
	}
	s.mu.Unlock()

	// The shared load outlives any one caller: a cancelled caller stops
	// waiting but the others still get the engine.
	ch := s.group.DoChan("engine", func() (any, error) {
		return s.start(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Engine), nil
	}
}

func (s *Session) start(ctx context.Context) (Engine, error) {
	s.mu.Lock()
	if s.state == Ready {
		e := s.engine
		s.mu.Unlock()
		return e, nil
	}
	if s.state == Closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", ErrEngineInit, errSessionClosed)
	}
	s.state = Initializing
	observer := s.observer
	s.mu.Unlock()

	log := logger.FromContext(ctx)
	began := time.Now()
	e, err := s.loadAndValidate(ctx)
	observer.EngineLoaded(time.Since(began), err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = Uninitialized
		log.Error("engine initialization failed", "error", err)
		return nil, err
	}
	if s.state == Closed {
		// Close raced with the load.
		_ = e.Close()
		return nil, fmt.Errorf("%w: %w", ErrEngineInit, errSessionClosed)
	}
	s.engine = e
	s.state = Ready
	log.Info("engine ready", "vocab", e.VocabSize(), "elapsed", time.Since(began))
	return e, nil
}

func (s *Session) loadAndValidate(ctx context.Context) (e Engine, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: panic in loader: %v", ErrEngineInit, rec)
		}
	}()
	if s.load == nil {
		return nil, fmt.Errorf("%w: no loader configured", ErrEngineInit)
	}
	e, err = s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngineInit, err)
	}
	if s.validate != nil {
		if verr := s.validate(e); verr != nil {
			_ = e.Close()
			return nil, fmt.Errorf("%w: %w", ErrEngineInit, verr)
		}
	}
	return e, nil
}

// Close releases the engine. The session cannot be used afterwards.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.engine
	s.engine = nil
	s.state = Closed
	if e != nil {
		return e.Close()
	}
	return nil
}
