package strategy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"chefagent"
	"chefagent/catalog"
)

// Plan turns a recipe into an ordered sequence of high-level cooking phases.
type Plan struct {
	oracle  chefagent.Oracle
	timeout time.Duration
}

func NewPlan(o chefagent.Oracle, timeout time.Duration) *Plan {
	return &Plan{oracle: o, timeout: timeout}
}

// Generate returns a non-empty step sequence for the recipe. The second
// return value reports whether the fallback table produced it.
func (s *Plan) Generate(ctx context.Context, goal, recipe string, tools, ingredients *catalog.Catalog) ([]string, bool) {
	out := s.primary(ctx, goal, recipe, tools, ingredients)
	if out.ok {
		return out.value, false
	}

	slog.Warn("STRATEGY: Plan oracle rejected, using fallback table", "recipe", recipe, "reason", out.reason)
	return fallbackPlan(recipe), true
}

func (s *Plan) primary(ctx context.Context, goal, recipe string, tools, ingredients *catalog.Catalog) outcome[[]string] {
	text, err := complete(ctx, s.oracle, s.timeout, planPrompt(goal, recipe, tools.Items(), ingredients.Items()))
	if err != nil {
		return needsFallback[[]string](fmt.Sprintf("oracle call failed: %v", err))
	}

	steps := parseSteps(text)
	if len(steps) == 0 {
		return needsFallback[[]string]("no steps parsed from oracle response")
	}
	return accepted(steps)
}

// parseSteps extracts step strings from a numbered or bulleted list, dropping
// the numbering markers. Lines that look like neither are ignored.
func parseSteps(text string) []string {
	var steps []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r := rune(line[0])
		if !unicode.IsDigit(r) && !strings.HasPrefix(line, "-") {
			continue
		}

		step := line
		if i := strings.Index(line, "."); unicode.IsDigit(r) && i >= 0 {
			step = line[i+1:]
		}
		step = strings.TrimSpace(strings.TrimLeft(step, "-. \t"))
		if step != "" {
			steps = append(steps, step)
		}
	}
	return steps
}

// fallbackPlan is the keyword table keyed on substrings of the recipe name.
// Every branch yields a fixed phase sequence; the catch-all guarantees the
// strategy's totality.
func fallbackPlan(recipe string) []string {
	r := strings.ToLower(recipe)
	switch {
	case strings.Contains(r, "chicken parm") || strings.Contains(r, "chicken parmesan"):
		return []string{
			"Pound and bread the chicken",
			"Pan-fry until golden brown",
			"Assemble with sauce and cheese",
			"Bake until cheese melts",
		}
	case strings.Contains(r, "pasta"):
		return []string{
			"Boil pasta in salted water",
			"Prepare the sauce",
			"Combine pasta with sauce",
			"Serve with cheese",
		}
	case strings.Contains(r, "toast"):
		return []string{
			"Whisk eggs with milk and spices",
			"Dip bread slices in mixture",
			"Cook in buttered skillet until golden",
			"Serve with syrup",
		}
	default:
		return []string{
			"Prepare ingredients",
			"Cook main components",
			"Combine and finish",
			"Serve hot",
		}
	}
}
