// Package strategy implements the three two-tier decision procedures of a
// cooking run: plan generation, tool selection, and ingredient selection.
// Each strategy consults the oracle first and validates its output against
// the run's catalogs; anything unusable downgrades to a deterministic
// keyword-rule fallback. Strategies are total: they never fail their caller.
package strategy

import (
	"context"
	"time"

	"chefagent"
)

// outcome is the tagged result of a strategy's primary tier. Fallback is
// driven by this value, never by catching errors from unrelated causes.
type outcome[T any] struct {
	value  T
	reason string
	ok     bool
}

func accepted[T any](v T) outcome[T] {
	return outcome[T]{value: v, ok: true}
}

func needsFallback[T any](reason string) outcome[T] {
	return outcome[T]{reason: reason}
}

// complete runs one oracle call under the strategy's timeout budget.
func complete(ctx context.Context, o chefagent.Oracle, timeout time.Duration, prompt string) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return o.Complete(ctx, prompt)
}
