package chefagent

import (
	"context"
	"net/http"
	"strings"
)

// DefaultGoal is used when a run is submitted without an explicit goal override.
const DefaultGoal = "Create a step-by-step cooking plan"

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Oracle is the external reasoning capability the decision strategies consult.
// Implementations may fail, time out, or return unusable text; callers must
// validate everything before it reaches run state.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Notifier delivers the final run summary to an external channel.
type Notifier interface {
	PostMessage(ctx context.Context, channel string, message string) error
}

// RunInput describes a run submission.
type RunInput struct {
	Recipe string `json:"recipe"`
	Goal   string `json:"goal,omitempty"`
}

// Normalize trims the recipe text and fills in the default goal.
func (in RunInput) Normalize() RunInput {
	in.Recipe = strings.TrimSpace(in.Recipe)
	if strings.TrimSpace(in.Goal) == "" {
		in.Goal = DefaultGoal
	}
	return in
}
