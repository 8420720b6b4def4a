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

// Ingredients names the catalog ingredients a step actively uses. This is the
// one strategy whose fallback may legitimately return nothing: a step that
// manipulates no ingredient (resting, plating) is not an error.
type Ingredients struct {
	oracle  chefagent.Oracle
	timeout time.Duration
}

func NewIngredients(o chefagent.Oracle, timeout time.Duration) *Ingredients {
	return &Ingredients{oracle: o, timeout: timeout}
}

// Select returns the catalog subset used by plan[stepIndex]. The prompt's
// context covers only steps strictly before stepIndex. The second return
// value reports whether the fallback table produced the answer.
func (s *Ingredients) Select(ctx context.Context, step string, ingredients *catalog.Catalog, plan []string, stepIndex int) ([]string, bool) {
	out := s.primary(ctx, step, ingredients, plan, stepIndex)
	if out.ok {
		return out.value, false
	}

	slog.Warn("STRATEGY: Ingredients oracle rejected, using fallback table", "step", step, "reason", out.reason)
	return fallbackIngredients(step, ingredients), true
}

func (s *Ingredients) primary(ctx context.Context, step string, ingredients *catalog.Catalog, plan []string, stepIndex int) outcome[[]string] {
	prompt := ingredientsPrompt(step, ingredients.Items(), plan, stepIndex)
	text, err := complete(ctx, s.oracle, s.timeout, prompt)
	if err != nil {
		return needsFallback[[]string](fmt.Sprintf("oracle call failed: %v", err))
	}

	names := splitList(text)
	// Entries outside the catalog are dropped silently, not treated as fatal.
	valid := ingredients.Intersect(names)
	if dropped := len(names) - len(valid); dropped > 0 {
		slog.Warn("STRATEGY: Dropped non-catalog ingredients from oracle response", "dropped", dropped)
	}
	if len(valid) == 0 {
		return needsFallback[[]string]("no catalog ingredients in oracle response")
	}
	return accepted(valid)
}

func splitList(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type ingredientRule struct {
	keywords []string
	group    []string
}

var ingredientRules = []ingredientRule{
	{keywords: []string{"chicken"}, group: []string{"Chicken Breast", "Salt", "Black Pepper"}},
	{keywords: []string{"pasta", "boil"}, group: []string{"Pasta", "Salt", "Water"}},
	{keywords: []string{"sauce"}, group: []string{"Tomato Sauce", "Garlic", "Onion"}},
	{keywords: []string{"cheese"}, group: []string{"Parmesan Cheese", "Mozzarella Cheese"}},
	{keywords: []string{"bread"}, group: []string{"Breadcrumbs", "Flour", "Eggs"}},
	{keywords: []string{"toast"}, group: []string{"Bread", "Eggs", "Milk", "Butter"}},
}

// fallbackIngredients scans the rule table on the lowercased step text and
// intersects the first matching group with the catalog. No match means no
// ingredients for this step.
func fallbackIngredients(step string, ingredients *catalog.Catalog) []string {
	lower := strings.ToLower(step)
	for _, rule := range ingredientRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return ingredients.Intersect(rule.group)
			}
		}
	}
	return []string{}
}
