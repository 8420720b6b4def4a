// Command lambda runs one cooking run per invocation: catalogs from S3,
// oracle on Bedrock, step logs as JSON lines for CloudWatch.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"

	"chefagent"
	"chefagent/catalog/storage"
	"chefagent/engine"
	"chefagent/executor"
	"chefagent/oracle/bedrock"
)

type Params struct {
	Recipe string `json:"recipe"`
	Goal   string `json:"goal,omitempty"`
}

type Results struct {
	Summary         string   `json:"summary"`
	UsedTools       []string `json:"used_tools"`
	UsedIngredients []string `json:"used_ingredients"`
}

type S3Config struct {
	Bucket         string `env:"CATALOG_S3_BUCKET,required"`
	ToolsKey       string `env:"CATALOG_TOOLS_S3_KEY,required"`
	IngredientsKey string `env:"CATALOG_INGREDIENTS_S3_KEY,required"`
}

func main() {
	fn := func(ctx context.Context, params Params) (Results, error) {
		var modelConfig chefagent.ModelConfig
		if err := envdecode.Decode(&modelConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		var chefConfig chefagent.ChefConfig
		if err := envdecode.Decode(&chefConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		var s3Config S3Config
		if err := envdecode.Decode(&s3Config); err != nil {
			return Results{}, fmt.Errorf("missing S3 config: %w", err)
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return Results{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		s3Client := s3.NewFromConfig(awsCfg)

		oracleClient := bedrock.NewClient(bedrockruntime.NewFromConfig(awsCfg), bedrock.ClientOpts{
			ModelID:     modelConfig.ModelID,
			MaxTokens:   modelConfig.MaxTokens,
			Temperature: modelConfig.Temperature,
			TopP:        modelConfig.TopP,
		})

		eng, err := engine.New(engine.Options{
			Oracle:           oracleClient,
			ToolSource:       storage.NewS3Source(s3Client, s3Config.Bucket, s3Config.ToolsKey),
			IngredientSource: storage.NewS3Source(s3Client, s3Config.Bucket, s3Config.IngredientsKey),
			OracleTimeout:    chefConfig.OracleTimeout,
			ExecutorTimeout:  chefConfig.ExecutorTimeout,
			Delay: executor.DelayBounds{
				Min: chefConfig.ExecutorMinDelay,
				Max: chefConfig.ExecutorMaxDelay,
			},
			RunLogger: chefagent.NewStdoutRunLogger(),
		})
		if err != nil {
			return Results{}, err
		}

		run, err := eng.Start(ctx, chefagent.RunInput{Recipe: params.Recipe, Goal: params.Goal})
		if err != nil {
			return Results{}, err
		}

		summary, err := run.Result(ctx)
		if err != nil {
			return Results{}, err
		}

		final := run.Snapshot()
		return Results{
			Summary:         summary,
			UsedTools:       final.UsedTools,
			UsedIngredients: final.UsedIngredients,
		}, nil
	}

	lambda.Start(fn)
}
