package inference

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSessionLoadsOnce(t *testing.T) {
	t.Parallel()

	var loads atomic.Int32
	release := make(chan struct{})
	s := NewSession(func(ctx context.Context) (Engine, error) {
		loads.Add(1)
		<-release
		return &recordingEngine{vocab: 3}, nil
	}, nil)

	if got := s.State(); got != Uninitialized {
		t.Fatalf("initial state = %v, want uninitialized", got)
	}

	var wg sync.WaitGroup
	engines := make([]Engine, 8)
	errs := make([]error, 8)
	for i := range engines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			engines[i], errs[i] = s.Engine(context.Background())
		}()
	}

	// Wait until the load is in flight before letting it finish.
	deadline := time.Now().Add(5 * time.Second)
	for s.State() != Initializing {
		if time.Now().After(deadline) {
			t.Fatalf("session never reached initializing")
		}
		time.Sleep(time.Millisecond)
	}
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: Engine() error = %v", i, err)
		}
		if engines[i] != engines[0] {
			t.Fatalf("caller %d got a different engine", i)
		}
	}
	if _, err := s.Engine(context.Background()); err != nil {
		t.Fatalf("Engine() after ready error = %v", err)
	}
	if n := loads.Load(); n != 1 {
		t.Fatalf("loader called %d times, want 1", n)
	}
	if got := s.State(); got != Ready {
		t.Fatalf("state = %v, want ready", got)
	}
}

func TestSessionPropagatesInitFailure(t *testing.T) {
	t.Parallel()

	cause := errors.New("unsupported execution backend")
	var loads atomic.Int32
	s := NewSession(func(ctx context.Context) (Engine, error) {
		if loads.Add(1) == 1 {
			return nil, cause
		}
		return &recordingEngine{vocab: 3}, nil
	}, nil)
	obs := &countingObserver{}
	s.SetObserver(obs)

	_, err := s.Engine(context.Background())
	if !errors.Is(err, ErrEngineInit) || !errors.Is(err, cause) {
		t.Fatalf("error = %v, want ErrEngineInit wrapping cause", err)
	}
	if got := s.State(); got != Uninitialized {
		t.Fatalf("state after failure = %v, want uninitialized", got)
	}

	// A later call is a fresh attempt made by the caller.
	if _, err := s.Engine(context.Background()); err != nil {
		t.Fatalf("second Engine() error = %v", err)
	}
	if obs.loads != 2 || obs.loadErrs != 1 {
		t.Fatalf("observer saw loads=%d errs=%d, want 2 and 1", obs.loads, obs.loadErrs)
	}
}

func TestSessionValidatorFailureClosesEngine(t *testing.T) {
	t.Parallel()

	eng := &recordingEngine{vocab: 5}
	mismatch := errors.New("size mismatch")
	s := NewSession(func(ctx context.Context) (Engine, error) {
		return eng, nil
	}, func(e Engine) error {
		if e.VocabSize() != 3 {
			return mismatch
		}
		return nil
	})

	_, err := s.Engine(context.Background())
	if !errors.Is(err, ErrEngineInit) || !errors.Is(err, mismatch) {
		t.Fatalf("error = %v, want ErrEngineInit wrapping mismatch", err)
	}
	if !eng.closed {
		t.Fatalf("engine rejected by validator was not closed")
	}
}

func TestSessionLoaderPanic(t *testing.T) {
	t.Parallel()

	s := NewSession(func(ctx context.Context) (Engine, error) {
		panic("no backend")
	}, nil)
	if _, err := s.Engine(context.Background()); !errors.Is(err, ErrEngineInit) {
		t.Fatalf("error = %v, want ErrEngineInit", err)
	}
}

func TestSessionClose(t *testing.T) {
	t.Parallel()

	eng := &recordingEngine{vocab: 3}
	s := NewSession(func(ctx context.Context) (Engine, error) { return eng, nil }, nil)
	if _, err := s.Engine(context.Background()); err != nil {
		t.Fatalf("Engine() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !eng.closed {
		t.Fatalf("engine not closed")
	}
	if _, err := s.Engine(context.Background()); !errors.Is(err, ErrEngineInit) {
		t.Fatalf("Engine() after Close error = %v, want ErrEngineInit", err)
	}
	if s.State() != Closed {
		t.Fatalf("state = %v, want closed", s.State())
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	for state, want := range map[State]string{
		Uninitialized: "uninitialized",
		Initializing:  "initializing",
		Ready:         "ready",
		Closed:        "closed",
		State(42):     "state(42)",
	} {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}

func TestSessionCancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	t.Parallel()

	var loads atomic.Int32
	release := make(chan struct{})
	s := NewSession(func(ctx context.Context) (Engine, error) {
		loads.Add(1)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &recordingEngine{vocab: 3}, nil
	}, nil)

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := s.Engine(first)
		firstErr <- err
	}()

	deadline := time.Now().Add(5 * time.Second)
	for s.State() != Initializing {
		if time.Now().After(deadline) {
			t.Fatalf("session never reached initializing")
		}
		time.Sleep(time.Millisecond)
	}

	second := make(chan error, 1)
	go func() {
		_, err := s.Engine(context.Background())
		second <- err
	}()

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller error = %v, want context.Canceled", err)
	}

	close(release)
	if err := <-second; err != nil {
		t.Fatalf("second caller error = %v", err)
	}
	if got := s.State(); got != Ready {
		t.Fatalf("state = %v, want ready", got)
	}
	if n := loads.Load(); n != 1 {
		t.Fatalf("loader ran %d times, want 1", n)
	}
}
