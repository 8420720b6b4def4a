package slack_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"chefagent/slack"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

type mockDoer struct {
	resp   *http.Response
	err    error
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	if m.doFunc != nil {
		return m.doFunc(req)
	}
	return m.resp, m.err
}

func TestNewClient(t *testing.T) {
	webhook := "http://slack.com/webhook"
	client := slack.NewClient(webhook, &mockDoer{})
	must.NotNil(t, client, "expected non-nil client")
}

func TestPostMessage(t *testing.T) {
	tests := []struct {
		name    string
		doFunc  func(req *http.Request) (*http.Response, error)
		wantErr error
	}{
		{
			name: "success",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewBufferString("ok"))}, nil
			},
			wantErr: nil,
		},
		{
			name: "failure status",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusBadRequest, Status: "400 Bad Request", Body: io.NopCloser(bytes.NewBufferString("bad request"))}, nil
			},
			wantErr: fmt.Errorf("failed to post message: 400 Bad Request"),
		},
		{
			name: "do error",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return nil, errors.New("network error")
			},
			wantErr: fmt.Errorf("network error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := slack.NewClient("http://example.com/webhook", &mockDoer{doFunc: tt.doFunc})
			err := client.PostMessage(context.Background(), "#kitchen", "Dinner is served!")
			should.Equal(t, tt.wantErr, err)
		})
	}
}

func TestPostRunSummary(t *testing.T) {
	var payload map[string]any
	doFunc := func(req *http.Request) (*http.Response, error) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, err
		}
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewBufferString("ok"))}, nil
	}

	client := slack.NewClient("http://example.com/webhook", &mockDoer{doFunc: doFunc})
	err := client.PostRunSummary(context.Background(), "#kitchen",
		"Cooked chicken parmesan using Chopping Board, Skillet, Oven",
		[]string{"Chopping Board", "Skillet", "Oven"},
		[]string{"Chicken Breast", "Salt"})
	must.NoError(t, err)

	should.Equal(t, "#kitchen", payload["channel"])
	text, ok := payload["text"].(string)
	must.True(t, ok)
	should.Contains(t, text, "Cooked chicken parmesan")
	should.Contains(t, text, "Tools: Chopping Board, Skillet, Oven")
	should.Contains(t, text, "Ingredients: Chicken Breast, Salt")
}
