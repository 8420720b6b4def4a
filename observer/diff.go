package observer

import "chefagent/engine"

// Diff derives the display events implied by advancing from prev to next.
// It is pure, order-stable, and tolerant of skipped phases: polling is
// sampling, so a step may jump straight from selecting_tool to complete
// between two reads. Duplicate or stale reads yield no events.
func Diff(prev, next engine.Snapshot) []Event {
	var events []Event

	if len(prev.Plan) == 0 && len(next.Plan) > 0 {
		events = append(events, Event{
			Kind: EventPlanReady,
			Plan: append([]string(nil), next.Plan...),
		})
	}

	// Completed steps are the durable record; emit one completion per newly
	// appended entry even if the poller slept through the live phases.
	for i := len(prev.CompletedSteps); i < len(next.CompletedSteps); i++ {
		e := Event{
			Kind:      EventStepCompleted,
			StepIndex: i,
			Step:      next.CompletedSteps[i],
		}
		if i < len(next.StepTools) {
			e.Tool = next.StepTools[i]
		}
		if i < len(next.StepIngredients) {
			e.Ingredients = append([]string(nil), next.StepIngredients[i]...)
		}
		if i == next.CurrentStepIndex && next.StepPhase == engine.PhaseStepComplete {
			e.Result = next.CurrentToolResult
		}
		events = append(events, e)
	}

	if next.Status == engine.StatusExecuting && next.CurrentStep != "" {
		startedNewStep := prev.CurrentStepIndex != next.CurrentStepIndex ||
			prev.Status != engine.StatusExecuting ||
			prev.CurrentStep == ""
		if startedNewStep {
			events = append(events, Event{
				Kind:      EventStepStarted,
				StepIndex: next.CurrentStepIndex,
				Step:      next.CurrentStep,
			})
		}

		enteredUsingTool := next.StepPhase == engine.PhaseUsingTool &&
			(startedNewStep || prev.StepPhase != engine.PhaseUsingTool)
		if enteredUsingTool && next.CurrentTool != "" {
			events = append(events, Event{
				Kind:        EventToolSelected,
				StepIndex:   next.CurrentStepIndex,
				Step:        next.CurrentStep,
				Tool:        next.CurrentTool,
				Ingredients: append([]string(nil), next.CurrentIngredients...),
			})
		}
	}

	if !prev.IsComplete && next.IsComplete {
		events = append(events, Event{
			Kind:            EventRunCompleted,
			UsedTools:       append([]string(nil), next.UsedTools...),
			UsedIngredients: append([]string(nil), next.UsedIngredients...),
		})
	}

	return events
}
