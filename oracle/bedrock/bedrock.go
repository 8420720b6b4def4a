// Package bedrock implements the Oracle capability on top of the Bedrock
// Converse API.
package bedrock

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

const (
	// defaultModelID is an inference profile ID or ARN, not the foundation
	// model's ID. See
	// https://docs.aws.amazon.com/bedrock/latest/userguide/inference-profiles.html.
	defaultModelID = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"

	defaultMaxTokens = 1024

	// Low temperature and top_p keep decisions consistent, which matters
	// here because strategies demand exact catalog names back.
	defaultTemperature = 0.3
	defaultTopP        = 0.9
)

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type ClientOpts struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type Client struct {
	brc  bedrockRuntimeClient
	opts ClientOpts
}

func NewClient(brc bedrockRuntimeClient, opts ClientOpts) *Client {
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.TopP == 0 {
		opts.TopP = defaultTopP
	}
	return &Client{brc: brc, opts: opts}
}

// Complete sends a single-turn prompt through Converse and returns the joined
// text blocks of the model's reply.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	slog.Info("ORACLE_CLIENT: Invoked", "prompt_size_bytes", len(prompt))

	out, err := c.brc.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.opts.ModelID),
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: prompt},
				},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(c.opts.MaxTokens),
			Temperature: aws.Float32(c.opts.Temperature),
			TopP:        aws.Float32(c.opts.TopP),
		},
	})
	if err != nil {
		return "", fmt.Errorf("converse: %w", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("unexpected converse output type %T", out.Output)
	}

	var sb strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			sb.WriteString(text.Value)
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
