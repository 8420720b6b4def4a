package observer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Renderer turns derived events into styled terminal lines. It is a pure
// consumer: feed it events from Poll and print the strings.
type Renderer struct {
	banner     lipgloss.Style
	plan       lipgloss.Style
	step       lipgloss.Style
	tool       lipgloss.Style
	ingredient lipgloss.Style
	success    lipgloss.Style
	summary    lipgloss.Style
}

func NewRenderer() *Renderer {
	return &Renderer{
		banner:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1).Border(lipgloss.RoundedBorder()),
		plan:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		step:       lipgloss.NewStyle().Bold(true),
		tool:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		ingredient: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		success:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		summary:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).Padding(0, 1).Border(lipgloss.RoundedBorder()),
	}
}

// Banner renders the opening line for a run.
func (r *Renderer) Banner(recipe string) string {
	return r.banner.Render(fmt.Sprintf("Cooking: %s", recipe))
}

// Render returns the terminal representation of one event.
func (r *Renderer) Render(e Event) string {
	switch e.Kind {
	case EventPlanReady:
		var sb strings.Builder
		sb.WriteString(r.step.Render("My plan:"))
		for i, step := range e.Plan {
			sb.WriteString("\n")
			sb.WriteString(r.plan.Render(fmt.Sprintf("  [ ] Step %d: %s", i+1, step)))
		}
		return sb.String()

	case EventStepStarted:
		return r.step.Render(fmt.Sprintf("--- Step %d: %s ---", e.StepIndex+1, e.Step))

	case EventToolSelected:
		ingredients := "no ingredients"
		if len(e.Ingredients) > 0 {
			ingredients = strings.Join(e.Ingredients, ", ")
		}
		return fmt.Sprintf("Decision: using %s with %s",
			r.tool.Render(e.Tool), r.ingredient.Render(ingredients))

	case EventStepCompleted:
		if e.Result != "" {
			return r.success.Render("✓ " + e.Result)
		}
		return r.success.Render(fmt.Sprintf("✓ Step %d complete: %s", e.StepIndex+1, e.Step))

	case EventRunCompleted:
		return r.summary.Render(fmt.Sprintf(
			"All done!\nTools used: %s\nIngredients used: %s",
			strings.Join(e.UsedTools, ", "),
			strings.Join(e.UsedIngredients, ", "),
		))
	}
	return ""
}
