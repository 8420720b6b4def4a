package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"chefagent"
	"chefagent/catalog"
	"chefagent/catalog/storage"
	"chefagent/executor"
	"chefagent/strategy"
)

// Options configure an Engine. Oracle and the two catalog sources are
// required; everything else has a sensible zero value.
type Options struct {
	Oracle           chefagent.Oracle
	ToolSource       storage.Source
	IngredientSource storage.Source

	// OracleTimeout bounds each decision-strategy oracle call. Zero means
	// no deadline beyond the run context.
	OracleTimeout time.Duration

	// ExecutorTimeout bounds each simulated tool usage. A timeout here is
	// fatal to the run.
	ExecutorTimeout time.Duration

	Delay executor.DelayBounds

	// RunLogger receives one StepLog per planning phase and completed step.
	RunLogger chefagent.RunLogger
}

// Engine drives cooking runs. One Engine may serve many concurrent runs;
// each run's state is owned by exactly one goroutine.
type Engine struct {
	toolSource       storage.Source
	ingredientSource storage.Source

	plan        *strategy.Plan
	tool        *strategy.Tool
	ingredients *strategy.Ingredients
	exec        *executor.Executor

	executorTimeout time.Duration
	logger          chefagent.RunLogger

	tracer trace.Tracer
	meter  meterSet
}

type meterSet struct {
	runs          metric.Int64Counter
	runsCompleted metric.Int64Counter
	runsFailed    metric.Int64Counter
	fallbacks     metric.Int64Counter
	stepDuration  metric.Float64Histogram
	runDuration   metric.Float64Histogram
}

func New(opts Options) (*Engine, error) {
	if opts.Oracle == nil {
		return nil, fmt.Errorf("engine: oracle is required")
	}
	if opts.ToolSource == nil || opts.IngredientSource == nil {
		return nil, fmt.Errorf("engine: tool and ingredient sources are required")
	}
	logger := opts.RunLogger
	if logger == nil {
		logger = chefagent.NewNoOpRunLogger()
	}

	return &Engine{
		toolSource:       opts.ToolSource,
		ingredientSource: opts.IngredientSource,
		plan:             strategy.NewPlan(opts.Oracle, opts.OracleTimeout),
		tool:             strategy.NewTool(opts.Oracle, opts.OracleTimeout),
		ingredients:      strategy.NewIngredients(opts.Oracle, opts.OracleTimeout),
		exec:             executor.New(opts.Delay),
		executorTimeout:  opts.ExecutorTimeout,
		logger:           logger,
	}, nil
}

// NewInstrumented builds an Engine that records spans per run/step plus run
// and fallback metrics.
func NewInstrumented(opts Options, tracer trace.Tracer, meter metric.Meter) (*Engine, error) {
	e, err := New(opts)
	if err != nil {
		return nil, err
	}
	e.tracer = tracer

	e.meter.runs, _ = meter.Int64Counter("chef_runs_total",
		metric.WithDescription("Total number of cooking runs started"))
	e.meter.runsCompleted, _ = meter.Int64Counter("chef_runs_completed_total",
		metric.WithDescription("Total number of cooking runs completed successfully"))
	e.meter.runsFailed, _ = meter.Int64Counter("chef_runs_failed_total",
		metric.WithDescription("Total number of cooking runs that failed"))
	e.meter.fallbacks, _ = meter.Int64Counter("chef_strategy_fallbacks_total",
		metric.WithDescription("Total number of strategy decisions answered by the fallback tables"))
	e.meter.stepDuration, _ = meter.Float64Histogram("chef_step_duration_seconds",
		metric.WithDescription("Duration of individual plan steps in seconds"))
	e.meter.runDuration, _ = meter.Float64Histogram("chef_run_duration_seconds",
		metric.WithDescription("Total duration of cooking runs in seconds"))

	return e, nil
}

// Start submits a run and returns its handle immediately. Catalog loading,
// planning, and execution happen on the run's own goroutine; failures
// surface through Run.Result.
func (e *Engine) Start(ctx context.Context, input chefagent.RunInput) (*Run, error) {
	input = input.Normalize()
	if input.Recipe == "" {
		return nil, fmt.Errorf("engine: recipe must not be empty")
	}

	run := newRun(uuid.NewString(), NewSnapshot(input.Recipe, input.Goal))
	go e.execute(ctx, run, input)
	return run, nil
}

func (e *Engine) execute(ctx context.Context, run *Run, input chefagent.RunInput) {
	slog.Info("ENGINE: Starting run", "run_id", run.ID(), "recipe", input.Recipe)
	started := time.Now()
	e.count(ctx, e.meter.runs)

	var span trace.Span
	if e.tracer != nil {
		ctx, span = e.tracer.Start(ctx, "Engine.Run", trace.WithAttributes(
			attribute.String("run.id", run.ID()),
			attribute.String("run.recipe", input.Recipe),
		))
		defer span.End()
	}

	summary, err := e.runStateMachine(ctx, run, input)
	if err != nil {
		slog.Error("ENGINE: Run failed", "run_id", run.ID(), "error", err)
		e.count(ctx, e.meter.runsFailed)
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "run failed")
		}
		run.fail(err)
		return
	}

	e.count(ctx, e.meter.runsCompleted)
	if e.meter.runDuration != nil {
		e.meter.runDuration.Record(ctx, time.Since(started).Seconds())
	}
	slog.Info("ENGINE: Run complete", "run_id", run.ID(), "summary", summary)
	run.complete(summary)
}

// runStateMachine is the single writer of the run's state. Every mutation
// happens inside run.mutate so a concurrent snapshot never sees a
// half-applied transition.
func (e *Engine) runStateMachine(ctx context.Context, run *Run, input chefagent.RunInput) (string, error) {
	tools, err := catalog.Load(ctx, e.toolSource)
	if err != nil {
		return "", fmt.Errorf("load tool catalog: %w", err)
	}
	ingredients, err := catalog.Load(ctx, e.ingredientSource)
	if err != nil {
		return "", fmt.Errorf("load ingredient catalog: %w", err)
	}

	planSteps, planFallback := e.plan.Generate(ctx, input.Goal, input.Recipe, tools, ingredients)
	if planFallback {
		e.count(ctx, e.meter.fallbacks)
	}
	e.logStep(chefagent.StepLog{
		Timestamp:    time.Now(),
		Phase:        "planning",
		PlanSteps:    planSteps,
		PlanFallback: planFallback,
	})

	// Plan is set atomically with the planning -> executing transition.
	run.mutate(func(s *Snapshot) {
		s.Plan = append([]string(nil), planSteps...)
		s.Status = StatusExecuting
	})
	slog.Info("ENGINE: Generated plan", "run_id", run.ID(), "steps", len(planSteps), "fallback", planFallback)

	for i, step := range planSteps {
		// Cooperative cancellation point: an external stop takes effect
		// within one step's latency.
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("run cancelled before step %d: %w", i+1, err)
		}

		if err := e.executeStep(ctx, run, planSteps, i, step, tools, ingredients); err != nil {
			return "", err
		}
	}

	run.mutate(func(s *Snapshot) {
		s.CurrentStep = ""
		s.CurrentTool = ""
		s.CurrentIngredients = []string{}
		s.CurrentToolResult = ""
		s.CurrentStepIndex = len(s.Plan)
		s.StepPhase = PhaseNone
		s.IsComplete = true
		s.Status = StatusCompleted
	})

	final := run.Snapshot()
	return fmt.Sprintf("Cooked %s using %s", input.Recipe, strings.Join(final.UsedTools, ", ")), nil
}

func (e *Engine) executeStep(ctx context.Context, run *Run, plan []string, i int, step string, tools, ingredients *catalog.Catalog) error {
	stepStarted := time.Now()

	var span trace.Span
	if e.tracer != nil {
		ctx, span = e.tracer.Start(ctx, fmt.Sprintf("Engine.Run.Step.%d", i+1))
		defer span.End()
	}

	run.mutate(func(s *Snapshot) {
		s.CurrentStep = step
		s.CurrentStepIndex = i
		s.CurrentTool = ""
		s.CurrentIngredients = []string{}
		s.CurrentToolResult = ""
		s.StepPhase = PhaseSelectingTool
	})

	// Tool before ingredients: later decisions may depend on earlier ones.
	tool, toolFallback := e.tool.Select(ctx, step, tools)
	if toolFallback {
		e.count(ctx, e.meter.fallbacks)
	}
	run.mutate(func(s *Snapshot) {
		s.CurrentTool = tool
	})

	stepIngredients, ingFallback := e.ingredients.Select(ctx, step, ingredients, plan, i)
	if ingFallback {
		e.count(ctx, e.meter.fallbacks)
	}
	run.mutate(func(s *Snapshot) {
		s.CurrentIngredients = append([]string(nil), stepIngredients...)
		s.StepPhase = PhaseUsingTool
	})

	execCtx := ctx
	if e.executorTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, e.executorTimeout)
		defer cancel()
	}
	result, err := e.exec.UseTool(execCtx, tool, stepIngredients, step)
	if err != nil {
		// No fallback at this layer; the run fails without reaching a
		// terminal completed state.
		e.logStep(chefagent.StepLog{
			StepIndex: i,
			Step:      step,
			Timestamp: time.Now(),
			Phase:     string(PhaseUsingTool),
			Tool:      tool,
			Error:     err.Error(),
		})
		return fmt.Errorf("execute step %d: %w", i+1, err)
	}

	run.mutate(func(s *Snapshot) {
		s.CurrentToolResult = result
		s.StepPhase = PhaseStepComplete
		s.CompletedSteps = append(s.CompletedSteps, step)
		s.StepTools = append(s.StepTools, tool)
		s.StepIngredients = append(s.StepIngredients, append([]string(nil), stepIngredients...))
		s.UsedTools = appendUnique(s.UsedTools, tool)
		for _, ing := range stepIngredients {
			s.UsedIngredients = appendUnique(s.UsedIngredients, ing)
		}
	})

	if e.meter.stepDuration != nil {
		e.meter.stepDuration.Record(ctx, time.Since(stepStarted).Seconds())
	}
	e.logStep(chefagent.StepLog{
		StepIndex:      i,
		Step:           step,
		Timestamp:      time.Now(),
		Phase:          string(PhaseStepComplete),
		Tool:           tool,
		ToolFallback:   toolFallback,
		Ingredients:    stepIngredients,
		IngFallback:    ingFallback,
		ExecutorResult: result,
	})
	return nil
}

func (e *Engine) count(ctx context.Context, c metric.Int64Counter) {
	if c != nil {
		c.Add(ctx, 1)
	}
}

func (e *Engine) logStep(step chefagent.StepLog) {
	if err := e.logger.LogStep(step); err != nil {
		slog.Error("ENGINE: Failed to log step", "error", err, "step_index", step.StepIndex)
	}
}
