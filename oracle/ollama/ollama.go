// Package ollama implements the Oracle capability against a local Ollama
// server's chat API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"chefagent"
)

type options struct {
	Temperature   float64 `json:"temperature,omitempty"`
	TopP          float64 `json:"top_p,omitempty"`
	RepeatPenalty float64 `json:"repeat_penalty,omitempty"`
	NumCtx        int     `json:"num_ctx,omitempty"`
}

type Client struct {
	endpoint   string
	model      string
	httpClient chefagent.HTTPClient
	options    options
}

type ClientOpts struct {
	BaseEndpoint string
	ModelID      string
	Temperature  float32
	TopP         float32
	HTTPClient   chefagent.HTTPClient
}

func NewClient(opts ClientOpts) (*Client, error) {
	if opts.ModelID == "" {
		return nil, fmt.Errorf("model id is required")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.3
	}
	if opts.TopP == 0 {
		opts.TopP = 0.9
	}

	return &Client{
		model:      opts.ModelID,
		httpClient: opts.HTTPClient,
		endpoint:   opts.BaseEndpoint + "/api/chat",
		options: options{
			Temperature:   float64(opts.Temperature),
			TopP:          float64(opts.TopP),
			RepeatPenalty: 1.05,
			NumCtx:        16384,
		},
	}, nil
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  options       `json:"options,omitempty"`
}

type wireResponse struct {
	Message wireMessage `json:"message"`
	// other metadata omitted but available
}

// Complete sends a single-turn prompt to the Ollama chat API and returns the
// model's text verbatim. The caller owns all parsing and validation.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	slog.Info("ORACLE_CLIENT: Invoked", "prompt_size_bytes", len(prompt))

	reqBody := wireRequest{
		Model:    c.model,
		Messages: []wireMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Options:  c.options,
	}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(reqBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ORACLE_CLIENT: %s: %s", resp.Status, string(body))
	}

	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return "", fmt.Errorf("ORACLE_CLIENT: decode response: %w", err)
	}

	return strings.TrimSpace(wr.Message.Content), nil
}
