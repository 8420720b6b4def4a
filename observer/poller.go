package observer

import (
	"context"
	"log/slog"
	"time"

	"chefagent/engine"
)

// QueryFunc fetches one snapshot of the observed run. Implementations wrap
// an in-process run handle or a remote workflow query; failures are treated
// as transient by the poller.
type QueryFunc func(ctx context.Context) (engine.Snapshot, error)

// Poller repeatedly queries a run and emits derived events. Query errors are
// logged and retried with doubling backoff.
type Poller struct {
	// Interval between successful polls. 300-500ms tracks the active step
	// closely without hammering the query path.
	Interval time.Duration

	// MaxBackoff caps the retry delay after consecutive query failures.
	MaxBackoff time.Duration
}

func NewPoller(interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 400 * time.Millisecond
	}
	return &Poller{Interval: interval, MaxBackoff: 5 * time.Second}
}

// Poll drives the observation loop until the run completes or done closes.
// A failed run never reports IsComplete, so done is how the caller signals
// that the run reached a terminal outcome and polling must stop; when it
// closes the poller queries once more to drain the last transitions, then
// returns. A nil done polls on completion alone. Every derived event is
// handed to sink in order; the final snapshot is returned so the caller can
// render a closing summary.
func (p *Poller) Poll(ctx context.Context, done <-chan struct{}, query QueryFunc, sink func(Event)) (engine.Snapshot, error) {
	backoff := p.Interval
	var prev engine.Snapshot
	var final bool

	for {
		next, err := query(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return prev, ctx.Err()
			}
			if final {
				return prev, err
			}
			slog.Warn("OBSERVER: Snapshot query failed, retrying", "error", err, "backoff", backoff)
			closed, werr := wait(ctx, done, backoff)
			if werr != nil {
				return prev, werr
			}
			final = closed
			if backoff *= 2; backoff > p.MaxBackoff {
				backoff = p.MaxBackoff
			}
			continue
		}
		backoff = p.Interval

		for _, event := range Diff(prev, next) {
			sink(event)
		}
		prev = next

		if next.IsComplete || final {
			return next, nil
		}

		closed, werr := wait(ctx, done, p.Interval)
		if werr != nil {
			return prev, werr
		}
		final = closed
	}
}

// wait pauses for d. It reports whether done closed, which asks the loop for
// one final drain pass; a finished context ends the wait with its error.
func wait(ctx context.Context, done <-chan struct{}, d time.Duration) (bool, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-done:
		return true, nil
	case <-timer.C:
		return false, nil
	}
}
