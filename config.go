package chefagent

import "time"

type ModelConfig struct {
	ModelID     string  `env:"MODEL_ID,required"`
	MaxTokens   int32   `env:"MAX_TOKENS,default=1024"`
	Temperature float32 `env:"TEMPERATURE,default=0.3"`
	TopP        float32 `env:"TOP_P,default=0.9"`
}

type ChefConfig struct {
	CatalogToolsPath       string        `env:"CATALOG_TOOLS_PATH,default=data/tools.json"`
	CatalogIngredientsPath string        `env:"CATALOG_INGREDIENTS_PATH,default=data/ingredients.json"`
	BaseOllamaEndpoint     string        `env:"BASE_OLLAMA_ENDPOINT,default=http://localhost:11434"`
	OracleTimeout          time.Duration `env:"ORACLE_TIMEOUT,default=30s"`
	ExecutorTimeout        time.Duration `env:"EXECUTOR_TIMEOUT,default=30s"`
	ExecutorMinDelay       time.Duration `env:"EXECUTOR_MIN_DELAY,default=1s"`
	ExecutorMaxDelay       time.Duration `env:"EXECUTOR_MAX_DELAY,default=2s"`
	PollInterval           time.Duration `env:"POLL_INTERVAL,default=400ms"`
}

type TemporalConfig struct {
	HostPort  string `env:"TEMPORAL_HOST_PORT,default=localhost:7233"`
	Namespace string `env:"TEMPORAL_NAMESPACE,default=default"`
	TaskQueue string `env:"TEMPORAL_TASK_QUEUE,default=chef-task-queue"`
}
