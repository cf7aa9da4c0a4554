package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

func oatsFrontmatter() map[string]any {
	return map[string]any{
		"calories":      379,
		"fat":           6.5,
		"sodium":        6,
		"carbohydrates": 67.7,
		"protein":       13.2,
		"servings":      []any{"Cup | 80g", "Tbsp | 5g"},
	}
}

func TestBuildFacts(t *testing.T) {
	facts := BuildFacts(domain.NutrientRecord{Calories: 303.2, Fat: 5.2, TransFat: 0.4, Sodium: 1150}, "Cup (80g)")

	assert.Equal(t, "Cup (80g)", facts.ServingSize)
	assert.Equal(t, 303, facts.Calories)
	require.Len(t, facts.Rows, 13)

	fat := facts.Rows[0]
	assert.Equal(t, "Total Fat", fat.Label)
	assert.Equal(t, 5, fat.Amount)
	require.NotNil(t, fat.PercentDV)
	assert.Equal(t, 7, *fat.PercentDV)

	trans := facts.Rows[2]
	assert.Equal(t, domain.KeyTransFat, trans.Key)
	assert.Nil(t, trans.PercentDV)

	sodium := facts.Rows[4]
	assert.Equal(t, "mg", sodium.Unit)
	require.NotNil(t, sodium.PercentDV)
	assert.Equal(t, 50, *sodium.PercentDV)
}

func TestFactsService_FoodFacts(t *testing.T) {
	vault := NewMockVault()
	vault.addNote("Food/Oats.md", oatsFrontmatter(), "")
	vault.addNote("Food/Empty.md", nil, "just text")
	vault.addNote("Food/Blank.md", map[string]any{}, "")
	service := NewFactsService(vault, FactsServiceConfig{})
	ctx := context.Background()

	t.Run("first serving by default", func(t *testing.T) {
		got, err := service.FoodFacts(ctx, "Food/Oats.md", "")
		require.NoError(t, err)

		assert.Equal(t, "Cup", got.Serving.Label)
		assert.Len(t, got.Servings, 2)
		assert.Equal(t, "Cup (80g)", got.Facts.ServingSize)
		assert.Equal(t, 303, got.Facts.Calories)
	})

	t.Run("serving by label or descriptor", func(t *testing.T) {
		for _, label := range []string{"tbsp", "Tbsp | 5g"} {
			got, err := service.FoodFacts(ctx, "Food/Oats.md", label)
			require.NoError(t, err, label)
			assert.Equal(t, 19, got.Facts.Calories, label)
		}
	})

	tests := []struct {
		name    string
		noteID  string
		serving string
		wantErr error
	}{
		{"unknown serving", "Food/Oats.md", "Slice", domain.ErrInvalidRequest},
		{"missing note", "Food/Nope.md", "", domain.ErrNoteNotFound},
		{"no frontmatter", "Food/Empty.md", "", domain.ErrNoData},
		{"empty frontmatter", "Food/Blank.md", "", domain.ErrNoData},
		{"empty id", "", "", domain.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.FoodFacts(ctx, tt.noteID, tt.serving)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
