package engine

import (
	"context"
	"sync"
)

// Run is the handle returned by Engine.Start. It supports concurrent
// snapshot queries while the run advances and blocks for the final summary.
type Run struct {
	id string

	mu    sync.RWMutex
	state Snapshot

	done    chan struct{}
	summary string
	err     error
}

func newRun(id string, initial Snapshot) *Run {
	return &Run{
		id:    id,
		state: initial,
		done:  make(chan struct{}),
	}
}

func (r *Run) ID() string { return r.id }

// Snapshot returns a deep copy of the current run state. It is idempotent
// and side-effect free; two calls with no intervening mutation are
// structurally identical.
func (r *Run) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Clone()
}

// Done is closed once the run reaches a terminal outcome (summary or error).
func (r *Run) Done() <-chan struct{} { return r.done }

// Result blocks until the run finishes and returns the summary, or the run
// failure, or the caller's context error.
func (r *Run) Result(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-r.done:
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summary, r.err
}

// mutate applies fn to the state under the write lock, so observers never
// see a half-applied transition.
func (r *Run) mutate(fn func(*Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.state)
}

func (r *Run) complete(summary string) {
	r.mu.Lock()
	r.summary = summary
	r.mu.Unlock()
	close(r.done)
}

func (r *Run) fail(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
	close(r.done)
}
