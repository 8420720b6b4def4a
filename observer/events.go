// Package observer consumes run snapshots. It derives display events from
// the delta between consecutive snapshots, polls a snapshot source with
// transient-error tolerance, and renders events for the terminal. Nothing in
// this package mutates run state.
package observer

// EventKind discriminates the display events a snapshot delta can yield.
type EventKind string

const (
	EventPlanReady     EventKind = "plan_ready"
	EventStepStarted   EventKind = "step_started"
	EventToolSelected  EventKind = "tool_selected"
	EventStepCompleted EventKind = "step_completed"
	EventRunCompleted  EventKind = "run_completed"
)

// Event is one derived UI transition. Only the fields relevant to its Kind
// are populated.
type Event struct {
	Kind EventKind

	StepIndex int
	Step      string

	Plan []string

	Tool        string
	Ingredients []string
	Result      string

	UsedTools       []string
	UsedIngredients []string
}
