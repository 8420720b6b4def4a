package observer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name  string
		event Event
		want  []string
	}{
		{
			name: "plan ready lists steps as checkboxes",
			event: Event{
				Kind: EventPlanReady,
				Plan: []string{"Pound and bread the chicken", "Pan-fry until golden brown"},
			},
			want: []string{"My plan:", "[ ] Step 1: Pound and bread the chicken", "[ ] Step 2: Pan-fry until golden brown"},
		},
		{
			name:  "step started",
			event: Event{Kind: EventStepStarted, StepIndex: 1, Step: "Pan-fry until golden brown"},
			want:  []string{"Step 2", "Pan-fry until golden brown"},
		},
		{
			name: "tool selected with ingredients",
			event: Event{
				Kind:        EventToolSelected,
				Tool:        "Skillet",
				Ingredients: []string{"Chicken Breast", "Salt"},
			},
			want: []string{"Decision: using", "Skillet", "Chicken Breast, Salt"},
		},
		{
			name:  "tool selected without ingredients",
			event: Event{Kind: EventToolSelected, Tool: "Spatula"},
			want:  []string{"Spatula", "no ingredients"},
		},
		{
			name:  "step completed shows result",
			event: Event{Kind: EventStepCompleted, Result: "Successfully used Skillet for: Pan-fry until golden brown"},
			want:  []string{"✓", "Successfully used Skillet"},
		},
		{
			name: "run completed summary",
			event: Event{
				Kind:            EventRunCompleted,
				UsedTools:       []string{"Skillet", "Oven"},
				UsedIngredients: []string{"Chicken Breast"},
			},
			want: []string{"All done!", "Skillet, Oven", "Chicken Breast"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := r.Render(tt.event)
			for _, fragment := range tt.want {
				assert.Contains(t, out, fragment)
			}
		})
	}
}

func TestRenderUnknownKindIsSilent(t *testing.T) {
	r := NewRenderer()
	assert.Empty(t, r.Render(Event{Kind: EventKind("mystery")}))
}
