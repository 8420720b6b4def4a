// Package executor simulates performing a physical cooking action. No
// physical failure is modeled: given a tool and a step it always produces a
// success message after a bounded random delay.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// DelayBounds bound the simulated task duration. Both are tunable; Min == Max
// makes the delay deterministic and a zero Min means instant execution. The
// zero value selects DefaultDelayBounds.
type DelayBounds struct {
	Min time.Duration
	Max time.Duration
}

// DefaultDelayBounds mirror a short real-world task.
var DefaultDelayBounds = DelayBounds{Min: time.Second, Max: 2 * time.Second}

type Executor struct {
	bounds DelayBounds
}

func New(bounds DelayBounds) *Executor {
	if bounds == (DelayBounds{}) {
		bounds = DefaultDelayBounds
	}
	if bounds.Min < 0 {
		bounds.Min = 0
	}
	if bounds.Max < bounds.Min {
		bounds.Max = bounds.Min
	}
	return &Executor{bounds: bounds}
}

// UseTool performs the step with the named tool. The ingredient list is
// informational only. A cancelled or expired context is the one failure path,
// and it is fatal to the run: there is no fallback at this layer.
func (e *Executor) UseTool(ctx context.Context, tool string, ingredients []string, step string) (string, error) {
	slog.Info("EXECUTOR: Using tool", "tool", tool, "step", step, "ingredients", len(ingredients))

	delay := e.bounds.Min
	if spread := e.bounds.Max - e.bounds.Min; spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread)))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("tool usage interrupted: %w", ctx.Err())
	case <-timer.C:
	}

	result := fmt.Sprintf("Successfully used %s for: %s", tool, step)
	slog.Info("EXECUTOR: " + result)
	return result, nil
}
