package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chefagent/catalog/storage"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantItems []string
		wantErr   bool
	}{
		{
			name:      "valid catalog",
			data:      `["Skillet","Oven","Chopping Board"]`,
			wantItems: []string{"Skillet", "Oven", "Chopping Board"},
		},
		{
			name:    "malformed json",
			data:    `["Skillet",`,
			wantErr: true,
		},
		{
			name:    "empty array",
			data:    `[]`,
			wantErr: true,
		},
		{
			name:    "non-string entry",
			data:    `["Skillet", 42]`,
			wantErr: true,
		},
		{
			name:    "empty entry",
			data:    `["Skillet", ""]`,
			wantErr: true,
		},
		{
			name:    "duplicate entry",
			data:    `["Skillet","Skillet"]`,
			wantErr: true,
		},
		{
			name:    "not an array",
			data:    `{"tools": ["Skillet"]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := Load(context.Background(), storage.NewStaticSource([]byte(tt.data)))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnavailable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantItems, cat.Items())
		})
	}

	t.Run("source failure", func(t *testing.T) {
		_, err := Load(context.Background(), storage.NewStaticSourceWithError())
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestCatalogMembership(t *testing.T) {
	cat, err := New([]string{"Skillet", "Oven", "Spatula"})
	require.NoError(t, err)

	assert.True(t, cat.Contains("Skillet"))
	assert.False(t, cat.Contains("skillet"), "membership is exact, not case-folded")
	assert.False(t, cat.Contains("Skillet "), "membership ignores no whitespace")
	assert.Equal(t, 3, cat.Len())
}

func TestCatalogIntersect(t *testing.T) {
	cat, err := New([]string{"Salt", "Pasta", "Water"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{
			name:  "keeps members in input order",
			names: []string{"Water", "Salt"},
			want:  []string{"Water", "Salt"},
		},
		{
			name:  "drops non-members",
			names: []string{"Salt", "Truffle Oil", "Pasta"},
			want:  []string{"Salt", "Pasta"},
		},
		{
			name:  "no members",
			names: []string{"Truffle Oil"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cat.Intersect(tt.names))
		})
	}
}

func TestCatalogItemsIsACopy(t *testing.T) {
	cat, err := New([]string{"Skillet", "Oven"})
	require.NoError(t, err)

	items := cat.Items()
	items[0] = "Blowtorch"
	assert.Equal(t, []string{"Skillet", "Oven"}, cat.Items())
}
