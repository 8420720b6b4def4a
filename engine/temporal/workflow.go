// Package temporal expresses a cooking run as a Temporal workflow. The
// workflow mirrors the in-process engine transition for transition; the
// backend contributes at-least-once activity execution, durable state across
// process restarts, and mid-run queryability via the getState handler.
package temporal

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"chefagent"
	"chefagent/engine"
)

const (
	// QueryState is the query type observers use to fetch a run snapshot.
	QueryState = "getState"

	// Per-activity start-to-close budgets: catalog loads and single-step
	// selections are quick; planning and tool usage get more headroom.
	shortTimeout   = 10 * time.Second
	planTimeout    = 30 * time.Second
	useToolTimeout = 30 * time.Second
)

// CookingRun is the workflow function. State mutation order matches the
// in-process engine so both drivers satisfy the same snapshot invariants.
func CookingRun(ctx workflow.Context, input chefagent.RunInput) (string, error) {
	input = input.Normalize()
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting cooking run", "recipe", input.Recipe)

	state := engine.NewSnapshot(input.Recipe, input.Goal)
	if err := workflow.SetQueryHandler(ctx, QueryState, func() (engine.Snapshot, error) {
		return state.Clone(), nil
	}); err != nil {
		return "", err
	}

	var a *Activities

	// Catalog and oracle trouble is either transient or permanent; a few
	// attempts is enough to tell which.
	retry := &temporal.RetryPolicy{MaximumAttempts: 3}

	short := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: shortTimeout,
		RetryPolicy:         retry,
	})
	longer := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: planTimeout,
		RetryPolicy:         retry,
	})

	var tools []string
	if err := workflow.ExecuteActivity(short, a.GetTools).Get(ctx, &tools); err != nil {
		return "", err
	}
	var ingredients []string
	if err := workflow.ExecuteActivity(short, a.GetIngredients).Get(ctx, &ingredients); err != nil {
		return "", err
	}

	var plan []string
	err := workflow.ExecuteActivity(longer, a.GeneratePlan, PlanRequest{
		Goal:        input.Goal,
		Recipe:      input.Recipe,
		Tools:       tools,
		Ingredients: ingredients,
	}).Get(ctx, &plan)
	if err != nil {
		return "", err
	}

	state.Plan = plan
	state.Status = engine.StatusExecuting
	logger.Info("Generated plan", "steps", len(plan))

	for i, step := range plan {
		state.CurrentStep = step
		state.CurrentStepIndex = i
		state.CurrentTool = ""
		state.CurrentIngredients = []string{}
		state.CurrentToolResult = ""
		state.StepPhase = engine.PhaseSelectingTool

		var tool string
		err := workflow.ExecuteActivity(short, a.SelectTool, ToolRequest{
			Step:  step,
			Tools: tools,
		}).Get(ctx, &tool)
		if err != nil {
			return "", err
		}
		state.CurrentTool = tool

		var stepIngredients []string
		err = workflow.ExecuteActivity(short, a.SelectIngredients, IngredientsRequest{
			Step:        step,
			Ingredients: ingredients,
			Plan:        plan,
			StepIndex:   i,
		}).Get(ctx, &stepIngredients)
		if err != nil {
			return "", err
		}
		if stepIngredients == nil {
			stepIngredients = []string{}
		}
		state.CurrentIngredients = stepIngredients
		state.StepPhase = engine.PhaseUsingTool

		useCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
			StartToCloseTimeout: useToolTimeout,
			RetryPolicy:         retry,
		})
		var result string
		err = workflow.ExecuteActivity(useCtx, a.UseTool, UseToolRequest{
			Tool:        tool,
			Ingredients: stepIngredients,
			Step:        step,
		}).Get(ctx, &result)
		if err != nil {
			return "", err
		}

		state.CurrentToolResult = result
		state.StepPhase = engine.PhaseStepComplete
		state.CompletedSteps = append(state.CompletedSteps, step)
		state.StepTools = append(state.StepTools, tool)
		state.StepIngredients = append(state.StepIngredients, stepIngredients)
		state.UsedTools = mergeUnique(state.UsedTools, tool)
		for _, ing := range stepIngredients {
			state.UsedIngredients = mergeUnique(state.UsedIngredients, ing)
		}
	}

	state.CurrentStep = ""
	state.CurrentTool = ""
	state.CurrentIngredients = []string{}
	state.CurrentToolResult = ""
	state.CurrentStepIndex = len(plan)
	state.StepPhase = engine.PhaseNone
	state.IsComplete = true
	state.Status = engine.StatusCompleted

	summary := summarize(input.Recipe, state.UsedTools)
	logger.Info("Run complete", "summary", summary)
	return summary, nil
}

func mergeUnique(list []string, name string) []string {
	for _, have := range list {
		if have == name {
			return list
		}
	}
	return append(list, name)
}

func summarize(recipe string, usedTools []string) string {
	out := "Cooked " + recipe + " using "
	for i, tool := range usedTools {
		if i > 0 {
			out += ", "
		}
		out += tool
	}
	return out
}
