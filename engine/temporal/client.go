package temporal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"chefagent"
	"chefagent/engine"
)

// Register wires the workflow and its activities onto a worker.
func Register(w worker.Worker, a *Activities) {
	w.RegisterWorkflow(CookingRun)
	w.RegisterActivity(a)
}

// RunHandle points at one workflow execution. It satisfies the same query
// and result surface as the in-process engine's Run.
type RunHandle struct {
	client     client.Client
	WorkflowID string
	RunID      string
}

// Start submits a cooking run to the given task queue and returns a handle.
func Start(ctx context.Context, c client.Client, taskQueue string, input chefagent.RunInput) (*RunHandle, error) {
	input = input.Normalize()
	if input.Recipe == "" {
		return nil, fmt.Errorf("recipe must not be empty")
	}

	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        "chef-" + uuid.NewString(),
		TaskQueue: taskQueue,
	}, CookingRun, input)
	if err != nil {
		return nil, fmt.Errorf("start workflow: %w", err)
	}

	return &RunHandle{
		client:     c,
		WorkflowID: run.GetID(),
		RunID:      run.GetRunID(),
	}, nil
}

// Snapshot queries the workflow for its current state. Safe at any
// lifecycle phase, including before planning completes.
func (h *RunHandle) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	val, err := h.client.QueryWorkflow(ctx, h.WorkflowID, h.RunID, QueryState)
	if err != nil {
		return engine.Snapshot{}, err
	}
	var snap engine.Snapshot
	if err := val.Get(&snap); err != nil {
		return engine.Snapshot{}, err
	}
	return snap, nil
}

// Result blocks until the workflow finishes and returns the summary.
func (h *RunHandle) Result(ctx context.Context) (string, error) {
	var summary string
	err := h.client.GetWorkflow(ctx, h.WorkflowID, h.RunID).Get(ctx, &summary)
	return summary, err
}
