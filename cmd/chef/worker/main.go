// Command worker hosts the Temporal workflow and its activities. Point it at
// a Temporal server and submit runs with the run command.
package main

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/joeshaw/envdecode"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"chefagent"
	"chefagent/catalog/storage"
	temporalengine "chefagent/engine/temporal"
	"chefagent/executor"
	"chefagent/oracle"
	"chefagent/oracle/ollama"
)

func main() {
	var chefConfig chefagent.ChefConfig
	if err := envdecode.Decode(&chefConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var temporalConfig chefagent.TemporalConfig
	if err := envdecode.Decode(&temporalConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	c, err := client.Dial(client.Options{
		HostPort:  temporalConfig.HostPort,
		Namespace: temporalConfig.Namespace,
	})
	if err != nil {
		log.Fatalf("SETUP: Failed to connect to Temporal: %s", err)
	}
	defer c.Close()

	activities := temporalengine.NewActivities(temporalengine.ActivitiesOptions{
		Oracle:           newOracle(chefConfig),
		ToolSource:       storage.NewFileSource(chefConfig.CatalogToolsPath),
		IngredientSource: storage.NewFileSource(chefConfig.CatalogIngredientsPath),
		OracleTimeout:    chefConfig.OracleTimeout,
		Delay: executor.DelayBounds{
			Min: chefConfig.ExecutorMinDelay,
			Max: chefConfig.ExecutorMaxDelay,
		},
	})

	w := worker.New(c, temporalConfig.TaskQueue, worker.Options{})
	temporalengine.Register(w, activities)

	slog.Info("SETUP: Worker started", "task_queue", temporalConfig.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("FAILURE: Worker stopped: %s", err)
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
