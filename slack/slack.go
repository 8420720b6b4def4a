// Package slack posts run summaries to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	webhookURL string
	httpClient doer
}

func NewClient(webhookURL string, httpClient doer) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

func (c *Client) PostMessage(ctx context.Context, channel string, message string) error {
	payload, err := json.Marshal(map[string]any{
		"channel": channel,
		"text":    message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to post message: %s", resp.Status)
	}

	return nil
}

// PostRunSummary formats a finished run and posts it in one message.
func (c *Client) PostRunSummary(ctx context.Context, channel, summary string, usedTools, usedIngredients []string) error {
	var sb strings.Builder
	sb.WriteString(summary)
	if len(usedTools) > 0 {
		fmt.Fprintf(&sb, "\nTools: %s", strings.Join(usedTools, ", "))
	}
	if len(usedIngredients) > 0 {
		fmt.Fprintf(&sb, "\nIngredients: %s", strings.Join(usedIngredients, ", "))
	}
	return c.PostMessage(ctx, channel, sb.String())
}
