package chefagent

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// RunLogger is the interface for per-run structured logging. The engine emits
// one StepLog per completed step plus one for planning.
type RunLogger interface {
	LogStep(step StepLog) error
}

// NewRunLogFilePath returns a file path derived from the recipe so logs from
// different runs are easy to tell apart.
func NewRunLogFilePath(recipe string) string {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(recipe)), " ", "_")
	return fmt.Sprintf("./logs/%d.%s.json", time.Now().Unix(), slug)
}

// StepLog records one decision/execution cycle of a run.
type StepLog struct {
	StepIndex      int       `json:"step_index"`
	Step           string    `json:"step,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Phase          string    `json:"phase"`
	Tool           string    `json:"tool,omitempty"`
	ToolFallback   bool      `json:"tool_fallback,omitempty"`
	Ingredients    []string  `json:"ingredients,omitempty"`
	IngFallback    bool      `json:"ingredients_fallback,omitempty"`
	PlanSteps      []string  `json:"plan_steps,omitempty"`
	PlanFallback   bool      `json:"plan_fallback,omitempty"`
	ExecutorResult string    `json:"executor_result,omitempty"`
	Error          string    `json:"error,omitempty"`
}

// FileRunLogger buffers step logs and flushes them as one JSON document.
type FileRunLogger struct {
	steps  []StepLog
	writer io.Writer
}

func NewFileRunLogger(writer io.Writer) *FileRunLogger {
	return &FileRunLogger{
		steps:  make([]StepLog, 0),
		writer: writer,
	}
}

func (l *FileRunLogger) LogStep(step StepLog) error {
	l.steps = append(l.steps, step)
	return nil
}

// Flush writes all accumulated step logs to the writer.
func (l *FileRunLogger) Flush() error {
	if l.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"run": map[string]any{
			"timestamp": time.Now(),
			"steps":     l.steps,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run log: %w", err)
	}

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write run log: %w", err)
	}

	l.steps = l.steps[:0]
	return nil
}

// NoOpRunLogger discards all step logs.
type NoOpRunLogger struct{}

func NewNoOpRunLogger() *NoOpRunLogger { return &NoOpRunLogger{} }

func (NoOpRunLogger) LogStep(step StepLog) error { return nil }

// StdoutRunLogger writes each step log as a JSON line to stdout (for
// Lambda/CloudWatch).
type StdoutRunLogger struct{}

func NewStdoutRunLogger() *StdoutRunLogger { return &StdoutRunLogger{} }

func (StdoutRunLogger) LogStep(step StepLog) error {
	data, err := json.Marshal(step)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
