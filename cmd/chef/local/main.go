// Command local runs a cooking run fully in-process: engine, observer, and
// renderer in one binary. With MODEL_ID set it consults a local Ollama
// server; without it the oracle is absent and every decision comes from the
// fallback tables, which is handy for demos with no model running.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joeshaw/envdecode"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"chefagent"
	"chefagent/catalog/storage"
	"chefagent/engine"
	"chefagent/executor"
	"chefagent/observer"
	"chefagent/oracle"
	"chefagent/oracle/ollama"
	"chefagent/slack"
)

func main() {
	ctx := context.Background()

	var chefConfig chefagent.ChefConfig
	if err := envdecode.Decode(&chefConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	recipe := argOr(1, "chicken parmesan")

	oracleClient := newOracle(chefConfig)

	runLogger, cleanup, err := newRunLogger(recipe)
	if err != nil {
		slog.Error("SETUP: Failed to create run logger", "error", err)
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("SETUP: Failed to flush run log", "error", err)
		}
	}()

	tracerProvider, meterProvider, otelShutdown, err := chefagent.InitOtel(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return
	}
	defer func() {
		if err := otelShutdown(ctx); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	tracer := tracerProvider.Tracer(chefagent.TracerNameEngine)
	meter := meterProvider.Meter(chefagent.TracerNameEngine)

	ctx, span := tracer.Start(ctx, chefagent.TracerNameEngine, trace.WithAttributes(
		attribute.String("run.recipe", recipe),
	))
	defer span.End()

	eng, err := engine.NewInstrumented(engine.Options{
		Oracle:           oracleClient,
		ToolSource:       storage.NewFileSource(chefConfig.CatalogToolsPath),
		IngredientSource: storage.NewFileSource(chefConfig.CatalogIngredientsPath),
		OracleTimeout:    chefConfig.OracleTimeout,
		ExecutorTimeout:  chefConfig.ExecutorTimeout,
		Delay: executor.DelayBounds{
			Min: chefConfig.ExecutorMinDelay,
			Max: chefConfig.ExecutorMaxDelay,
		},
		RunLogger: runLogger,
	}, tracer, meter)
	if err != nil {
		slog.Error("SETUP: Failed to create engine", "error", err)
		return
	}

	run, err := eng.Start(ctx, chefagent.RunInput{Recipe: recipe})
	if err != nil {
		slog.Error("SETUP: Failed to start run", "error", err)
		return
	}

	renderer := observer.NewRenderer()
	fmt.Println(renderer.Banner(recipe))

	// run.Done unblocks the poller when the run fails, since a failed run
	// never reports completion through its snapshots.
	poller := observer.NewPoller(chefConfig.PollInterval)
	final, err := poller.Poll(ctx, run.Done(),
		func(ctx context.Context) (engine.Snapshot, error) { return run.Snapshot(), nil },
		func(e observer.Event) { fmt.Println(renderer.Render(e)) },
	)
	if err != nil {
		slog.Error("FAILURE: Observation interrupted", "error", err)
	}

	summary, err := run.Result(ctx)
	if err != nil {
		slog.Error("FAILURE: Run failed", "error", err)
		return
	}
	fmt.Println(summary)

	if os.Getenv("DEBUG") != "" {
		chefagent.Dump(run.Snapshot())
	}

	if webhook := os.Getenv("SLACK_WEBHOOK_URL"); webhook != "" {
		slackClient := slack.NewClient(webhook, http.DefaultClient)
		if err := slackClient.PostRunSummary(ctx, "#general", summary, final.UsedTools, final.UsedIngredients); err != nil {
			slog.Error("Failed to post summary to Slack", "error", err)
		}
	}
}

func newOracle(cfg chefagent.ChefConfig) chefagent.Oracle {
	var modelConfig chefagent.ModelConfig
	if err := envdecode.Decode(&modelConfig); err != nil {
		slog.Info("SETUP: No model configured, oracle unavailable; fallback tables will drive all decisions")
		return oracle.NewUnavailable()
	}

	client, err := ollama.NewClient(ollama.ClientOpts{
		BaseEndpoint: cfg.BaseOllamaEndpoint,
		ModelID:      modelConfig.ModelID,
		Temperature:  modelConfig.Temperature,
		TopP:         modelConfig.TopP,
		HTTPClient:   http.DefaultClient,
	})
	if err != nil {
		slog.Error("SETUP: Failed to create Ollama client, oracle unavailable", "error", err)
		return oracle.NewUnavailable()
	}
	return client
}

func newRunLogger(recipe string) (chefagent.RunLogger, func() error, error) {
	if err := os.MkdirAll("./logs", 0o755); err != nil {
		return nil, func() error { return err }, err
	}

	logFilePath := chefagent.NewRunLogFilePath(recipe)
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := chefagent.NewFileRunLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}

func argOr(i int, def string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return def
}
