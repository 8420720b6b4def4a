package temporal

import (
	"context"
	"time"

	"go.temporal.io/sdk/activity"

	"chefagent"
	"chefagent/catalog"
	"chefagent/catalog/storage"
	"chefagent/executor"
	"chefagent/strategy"
)

// Activities hosts everything the workflow may not do itself: catalog I/O,
// oracle calls, and the simulated tool usage. Catalog lists travel through
// the workflow as plain string slices so the workflow stays deterministic.
type Activities struct {
	toolSource       storage.Source
	ingredientSource storage.Source

	plan        *strategy.Plan
	tool        *strategy.Tool
	ingredients *strategy.Ingredients
	exec        *executor.Executor
}

type ActivitiesOptions struct {
	Oracle           chefagent.Oracle
	ToolSource       storage.Source
	IngredientSource storage.Source
	OracleTimeout    time.Duration
	Delay            executor.DelayBounds
}

func NewActivities(opts ActivitiesOptions) *Activities {
	return &Activities{
		toolSource:       opts.ToolSource,
		ingredientSource: opts.IngredientSource,
		plan:             strategy.NewPlan(opts.Oracle, opts.OracleTimeout),
		tool:             strategy.NewTool(opts.Oracle, opts.OracleTimeout),
		ingredients:      strategy.NewIngredients(opts.Oracle, opts.OracleTimeout),
		exec:             executor.New(opts.Delay),
	}
}

func (a *Activities) GetTools(ctx context.Context) ([]string, error) {
	cat, err := catalog.Load(ctx, a.toolSource)
	if err != nil {
		return nil, err
	}
	return cat.Items(), nil
}

func (a *Activities) GetIngredients(ctx context.Context) ([]string, error) {
	cat, err := catalog.Load(ctx, a.ingredientSource)
	if err != nil {
		return nil, err
	}
	return cat.Items(), nil
}

type PlanRequest struct {
	Goal        string   `json:"goal"`
	Recipe      string   `json:"recipe"`
	Tools       []string `json:"tools"`
	Ingredients []string `json:"ingredients"`
}

// GeneratePlan is total: the plan strategy falls back to its rule table on
// any oracle trouble, so an error here means the catalogs were corrupt.
func (a *Activities) GeneratePlan(ctx context.Context, req PlanRequest) ([]string, error) {
	tools, err := catalog.New(req.Tools)
	if err != nil {
		return nil, err
	}
	ingredients, err := catalog.New(req.Ingredients)
	if err != nil {
		return nil, err
	}

	steps, fallback := a.plan.Generate(ctx, req.Goal, req.Recipe, tools, ingredients)
	activity.GetLogger(ctx).Info("Generated plan", "steps", len(steps), "fallback", fallback)
	return steps, nil
}

type ToolRequest struct {
	Step  string   `json:"step"`
	Tools []string `json:"tools"`
}

func (a *Activities) SelectTool(ctx context.Context, req ToolRequest) (string, error) {
	tools, err := catalog.New(req.Tools)
	if err != nil {
		return "", err
	}

	tool, fallback := a.tool.Select(ctx, req.Step, tools)
	activity.GetLogger(ctx).Info("Selected tool", "tool", tool, "fallback", fallback)
	return tool, nil
}

type IngredientsRequest struct {
	Step        string   `json:"step"`
	Ingredients []string `json:"ingredients"`
	Plan        []string `json:"plan"`
	StepIndex   int      `json:"step_index"`
}

func (a *Activities) SelectIngredients(ctx context.Context, req IngredientsRequest) ([]string, error) {
	ingredients, err := catalog.New(req.Ingredients)
	if err != nil {
		return nil, err
	}

	selected, fallback := a.ingredients.Select(ctx, req.Step, ingredients, req.Plan, req.StepIndex)
	activity.GetLogger(ctx).Info("Selected ingredients", "count", len(selected), "fallback", fallback)
	return selected, nil
}

type UseToolRequest struct {
	Tool        string   `json:"tool"`
	Ingredients []string `json:"ingredients"`
	Step        string   `json:"step"`
}

func (a *Activities) UseTool(ctx context.Context, req UseToolRequest) (string, error) {
	return a.exec.UseTool(ctx, req.Tool, req.Ingredients, req.Step)
}
