// Command run submits a cooking run to a Temporal worker and observes it:
// it polls the workflow's getState query and renders the derived events
// until the run completes.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joeshaw/envdecode"
	"go.temporal.io/sdk/client"

	"chefagent"
	"chefagent/engine"
	temporalengine "chefagent/engine/temporal"
	"chefagent/observer"
)

func main() {
	ctx := context.Background()

	var chefConfig chefagent.ChefConfig
	if err := envdecode.Decode(&chefConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var temporalConfig chefagent.TemporalConfig
	if err := envdecode.Decode(&temporalConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	recipe := argOr(1, "chicken parmesan")

	c, err := client.Dial(client.Options{
		HostPort:  temporalConfig.HostPort,
		Namespace: temporalConfig.Namespace,
	})
	if err != nil {
		log.Fatalf("SETUP: Failed to connect to Temporal: %s", err)
	}
	defer c.Close()

	handle, err := temporalengine.Start(ctx, c, temporalConfig.TaskQueue, chefagent.RunInput{Recipe: recipe})
	if err != nil {
		log.Fatalf("SETUP: Failed to start run: %s", err)
	}
	slog.Info("SETUP: Run started", "workflow_id", handle.WorkflowID)

	renderer := observer.NewRenderer()
	fmt.Println(renderer.Banner(recipe))

	// Resolve the result concurrently so a failed workflow, which never
	// reports completion through getState, still ends the poll.
	resultDone := make(chan struct{})
	var summary string
	var runErr error
	go func() {
		defer close(resultDone)
		summary, runErr = handle.Result(ctx)
	}()

	poller := observer.NewPoller(chefConfig.PollInterval)
	if _, err := poller.Poll(ctx, resultDone,
		func(ctx context.Context) (engine.Snapshot, error) { return handle.Snapshot(ctx) },
		func(e observer.Event) { fmt.Println(renderer.Render(e)) },
	); err != nil {
		slog.Error("FAILURE: Observation interrupted", "error", err)
	}

	<-resultDone
	if runErr != nil {
		log.Fatalf("FAILURE: Run failed: %s", runErr)
	}
	fmt.Println(summary)
}

func argOr(i int, def string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return def
}
