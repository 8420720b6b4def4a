package strategy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chefagent"
	"chefagent/catalog"
)

// defaultTool is the designated general-purpose tool used when no rule
// matches a step.
const defaultTool = "Spatula"

// Tool picks exactly one catalog tool for a step.
type Tool struct {
	oracle  chefagent.Oracle
	timeout time.Duration
}

func NewTool(o chefagent.Oracle, timeout time.Duration) *Tool {
	return &Tool{oracle: o, timeout: timeout}
}

// Select always returns a valid catalog tool name; the second return value
// reports whether the fallback table chose it. The tools catalog must be
// non-empty, which the catalog loader guarantees.
func (s *Tool) Select(ctx context.Context, step string, tools *catalog.Catalog) (string, bool) {
	out := s.primary(ctx, step, tools)
	if out.ok {
		return out.value, false
	}

	slog.Warn("STRATEGY: Tool oracle rejected, using fallback table", "step", step, "reason", out.reason)
	return fallbackTool(step, tools), true
}

func (s *Tool) primary(ctx context.Context, step string, tools *catalog.Catalog) outcome[string] {
	text, err := complete(ctx, s.oracle, s.timeout, toolPrompt(step, tools.Items()))
	if err != nil {
		return needsFallback[string](fmt.Sprintf("oracle call failed: %v", err))
	}

	// Byte-exact catalog match only; no case folding, no fuzzy matching.
	name := strings.TrimSpace(text)
	if !tools.Contains(name) {
		return needsFallback[string](fmt.Sprintf("oracle returned unknown tool %q", name))
	}
	return accepted(name)
}

type toolRule struct {
	keywords []string
	tool     string
}

// toolRules is scanned top to bottom on the lowercased step text; the first
// matching rule whose tool exists in the run's catalog wins.
var toolRules = []toolRule{
	{keywords: []string{"pound", "chop", "cut"}, tool: "Chopping Board"},
	{keywords: []string{"bread", "mix", "combine", "whisk"}, tool: "Mixing Bowl"},
	{keywords: []string{"pan-fry", "fry", "saute", "sauté"}, tool: "Skillet"},
	{keywords: []string{"bake", "roast"}, tool: "Oven"},
	{keywords: []string{"boil", "simmer"}, tool: "Saucepan"},
	{keywords: []string{"drain", "strain"}, tool: "Strainer"},
}

func fallbackTool(step string, tools *catalog.Catalog) string {
	lower := strings.ToLower(step)
	for _, rule := range toolRules {
		if !tools.Contains(rule.tool) {
			continue
		}
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.tool
			}
		}
	}

	if tools.Contains(defaultTool) {
		return defaultTool
	}
	// Catalog containment beats the designated default.
	return tools.Items()[0]
}
