package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chefagent/catalog"
	"chefagent/oracle"
)

func TestIngredientsSelectPrimary(t *testing.T) {
	ingredients, err := catalog.New([]string{"Chicken Breast", "Salt", "Black Pepper", "Tomato Sauce"})
	require.NoError(t, err)

	plan := []string{"Pound and bread the chicken", "Pan-fry until golden brown"}

	tests := []struct {
		name         string
		response     string
		want         []string
		wantFallback bool
	}{
		{
			name:     "comma list of catalog members",
			response: "Chicken Breast, Salt",
			want:     []string{"Chicken Breast", "Salt"},
		},
		{
			name:     "non-catalog entries dropped",
			response: "Chicken Breast, Truffle Oil, Salt",
			want:     []string{"Chicken Breast", "Salt"},
		},
		{
			name:     "ragged whitespace tolerated",
			response: " Salt ,  Black Pepper ",
			want:     []string{"Salt", "Black Pepper"},
		},
		{
			name:         "nothing valid downgrades to fallback",
			response:     "Truffle Oil, Saffron",
			want:         []string{"Chicken Breast", "Salt", "Black Pepper"},
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewIngredients(oracle.NewScript([]string{tt.response}, nil), time.Second)
			got, fallback := s.Select(context.Background(), plan[0], ingredients, plan, 0)
			assert.Equal(t, tt.wantFallback, fallback)
			assert.Equal(t, tt.want, got)
			for _, name := range got {
				assert.True(t, ingredients.Contains(name))
			}
		})
	}
}

func TestIngredientsSelectFallback(t *testing.T) {
	ingredients, err := catalog.New([]string{"Chicken Breast", "Salt", "Pasta", "Water", "Parmesan Cheese"})
	require.NoError(t, err)

	tests := []struct {
		name string
		step string
		want []string
	}{
		{
			name: "group intersected with catalog",
			step: "Pound and bread the chicken",
			want: []string{"Chicken Breast", "Salt"},
		},
		{
			name: "boil keyword",
			step: "Boil pasta in salted water",
			want: []string{"Pasta", "Salt", "Water"},
		},
		{
			name: "group fully outside catalog",
			step: "Prepare the sauce",
			want: []string{},
		},
		{
			name: "no keyword means no ingredients",
			step: "Serve hot",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewIngredients(oracle.NewUnavailable(), time.Second)
			got, fallback := s.Select(context.Background(), tt.step, ingredients, []string{tt.step}, 0)
			assert.True(t, fallback)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The ingredient prompt for step N may reference steps before N but never the
// steps after it, so the answer cannot leak future plan content.
func TestIngredientsPromptContextIsolation(t *testing.T) {
	ingredients, err := catalog.New([]string{"Chicken Breast", "Salt"})
	require.NoError(t, err)

	plan := []string{
		"Pound and bread the chicken",
		"Pan-fry until golden brown",
		"Assemble with sauce and cheese",
		"Bake until cheese melts",
	}

	script := oracle.NewScript([]string{"Chicken Breast"}, nil)
	s := NewIngredients(script, time.Second)
	s.Select(context.Background(), plan[2], ingredients, plan, 2)

	require.Len(t, script.Prompts, 1)
	prompt := script.Prompts[0]

	assert.Contains(t, prompt, plan[0])
	assert.Contains(t, prompt, plan[1])
	assert.Contains(t, prompt, plan[2], "the current step itself is always present")
	assert.NotContains(t, prompt, plan[3], "later steps must not appear")
}

func TestIngredientsPromptFirstStepHasNoContext(t *testing.T) {
	ingredients, err := catalog.New([]string{"Chicken Breast", "Salt"})
	require.NoError(t, err)

	plan := []string{"Pound and bread the chicken", "Pan-fry until golden brown"}

	script := oracle.NewScript([]string{"Salt"}, nil)
	s := NewIngredients(script, time.Second)
	s.Select(context.Background(), plan[0], ingredients, plan, 0)

	require.Len(t, script.Prompts, 1)
	assert.NotContains(t, script.Prompts[0], "Steps already completed")
	assert.NotContains(t, script.Prompts[0], plan[1])
}
