// Package oracle provides Oracle implementations that are useful on their
// own: one that is permanently absent and one that replays scripted answers.
// Live clients backed by real model services live in the subpackages.
package oracle

import (
	"context"
	"errors"
	"log/slog"
)

// ErrUnavailable reports that no oracle is reachable. Strategies recover from
// it via their fallback tables; it never propagates past a strategy boundary.
var ErrUnavailable = errors.New("oracle unavailable")

// Unavailable is the absent-oracle capability. Every call fails with
// ErrUnavailable, which forces strategies onto their deterministic fallbacks.
type Unavailable struct{}

func NewUnavailable() Unavailable { return Unavailable{} }

func (Unavailable) Complete(ctx context.Context, prompt string) (string, error) {
	return "", ErrUnavailable
}

// Script replays canned responses in order, then fails. It is deterministic
// by design so tests can drive strategies through both tiers.
type Script struct {
	responses []string
	errs      []error
	calls     int

	// Prompts records every prompt the script was asked to complete, in
	// call order, so tests can assert on prompt construction.
	Prompts []string
}

// NewScript builds a scripted oracle. A nil error slot means the matching
// response is returned as-is; a non-nil slot fails that call instead.
func NewScript(responses []string, errs []error) *Script {
	return &Script{responses: responses, errs: errs}
}

func (s *Script) Complete(ctx context.Context, prompt string) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	i := s.calls
	s.calls++

	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}

	slog.Warn("ORACLE_CLIENT: Script exhausted", "call", i+1)
	return "", ErrUnavailable
}
