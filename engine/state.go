// Package engine owns the run state machine: it sequences plan generation
// and step-by-step execution, mutates a single RunState record from one
// goroutine, and hands immutable snapshots to concurrent observers.
package engine

// Lifecycle is the coarse run status. It only ever advances.
type Lifecycle string

const (
	StatusPlanning  Lifecycle = "planning"
	StatusExecuting Lifecycle = "executing"
	StatusCompleted Lifecycle = "completed"
)

// StepPhase is the sub-state of the in-flight step. It cycles once per step
// and is empty outside of execution.
type StepPhase string

const (
	PhaseNone          StepPhase = ""
	PhaseSelectingTool StepPhase = "selecting_tool"
	PhaseUsingTool     StepPhase = "using_tool"
	PhaseStepComplete  StepPhase = "step_complete"
)

// Snapshot is a point-in-time copy of a run's state. It is safe to retain
// and compare across polls; all slices are owned by the snapshot.
type Snapshot struct {
	Recipe             string     `json:"recipe"`
	Goal               string     `json:"goal"`
	Plan               []string   `json:"plan"`
	CurrentStep        string     `json:"current_step,omitempty"`
	CurrentStepIndex   int        `json:"current_step_index"`
	CompletedSteps     []string   `json:"completed_steps"`
	UsedTools          []string   `json:"used_tools"`
	CurrentTool        string     `json:"current_tool,omitempty"`
	UsedIngredients    []string   `json:"used_ingredients"`
	CurrentIngredients []string   `json:"current_ingredients"`
	StepTools          []string   `json:"step_tools"`
	StepIngredients    [][]string `json:"step_ingredients"`
	CurrentToolResult  string     `json:"current_tool_result,omitempty"`
	IsComplete         bool       `json:"is_complete"`
	Status             Lifecycle  `json:"status"`
	StepPhase          StepPhase  `json:"step_phase"`
}

// NewSnapshot is the zero state of a fresh run: all collections empty,
// lifecycle planning.
func NewSnapshot(recipe, goal string) Snapshot {
	return Snapshot{
		Recipe:             recipe,
		Goal:               goal,
		Plan:               []string{},
		CompletedSteps:     []string{},
		UsedTools:          []string{},
		UsedIngredients:    []string{},
		CurrentIngredients: []string{},
		StepTools:          []string{},
		StepIngredients:    [][]string{},
		Status:             StatusPlanning,
		StepPhase:          PhaseNone,
	}
}

// Clone deep-copies the snapshot so the caller can never alias engine state.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Plan = append([]string(nil), s.Plan...)
	out.CompletedSteps = append([]string(nil), s.CompletedSteps...)
	out.UsedTools = append([]string(nil), s.UsedTools...)
	out.UsedIngredients = append([]string(nil), s.UsedIngredients...)
	out.CurrentIngredients = append([]string(nil), s.CurrentIngredients...)
	out.StepTools = append([]string(nil), s.StepTools...)
	out.StepIngredients = make([][]string, len(s.StepIngredients))
	for i, ings := range s.StepIngredients {
		out.StepIngredients[i] = append([]string(nil), ings...)
	}
	return out
}

// appendUnique merges name into list keeping first-use order.
func appendUnique(list []string, name string) []string {
	for _, have := range list {
		if have == name {
			return list
		}
	}
	return append(list, name)
}
