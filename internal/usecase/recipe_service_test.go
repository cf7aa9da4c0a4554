package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// porridgeVault holds a two-serving recipe with one countable ingredient
func porridgeVault() *MockVault {
	vault := NewMockVault()
	vault.addNote("Oats.md", oatsFrontmatter(), "")
	vault.addNote("Porridge.md", nil, "# Porridge\nservings:: 2\n",
		domain.Task{Description: "(serving:: Cup) (item:: [[Oats]]) [cal:: 303]", Symbol: "c", Completed: true},
		domain.Task{Description: "(serving:: Cup x(qty:: 2)) (item:: [[Milk]])", Symbol: "c", Completed: true},
		domain.Task{Description: "(serving:: Tbsp) (item:: [[Oats]])", Symbol: " "},
		domain.Task{Description: "(item:: [[Salt]])", Symbol: "c", Completed: true},
	)
	return vault
}

func TestRecipeService_Summarize(t *testing.T) {
	service := NewRecipeService(porridgeVault(), RecipeServiceConfig{EnableDebugLogging: true})

	got, err := service.Summarize(context.Background(), "Porridge.md")
	require.NoError(t, err)

	assert.Equal(t, 2, got.Servings)
	assert.InDelta(t, 303.2, got.Totals.Total.Calories, 1e-9)
	assert.InDelta(t, 5.2, got.Totals.Total.Fat, 1e-9)
	assert.Equal(t, []string{"Salt", "Milk"}, got.Totals.Failed)
}

func TestRecipeService_RecipeFacts(t *testing.T) {
	service := NewRecipeService(porridgeVault(), RecipeServiceConfig{})
	ctx := context.Background()

	perServing, err := service.RecipeFacts(ctx, "Porridge.md", true)
	require.NoError(t, err)
	assert.True(t, perServing.PerServing)
	assert.Equal(t, "1 Serving", perServing.Facts.ServingSize)
	assert.Equal(t, 152, perServing.Facts.Calories)
	assert.Equal(t, []string{"1/2 of Recipe"}, perServing.ServingOptions)

	total, err := service.RecipeFacts(ctx, "Porridge.md", false)
	require.NoError(t, err)
	assert.Equal(t, "Total Recipe", total.Facts.ServingSize)
	assert.Equal(t, 303, total.Facts.Calories)

	_, err = service.RecipeFacts(ctx, "Missing.md", true)
	assert.ErrorIs(t, err, domain.ErrNoteNotFound)

	_, err = service.Summarize(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestNoteIngredientResolver(t *testing.T) {
	vault := NewMockVault()
	vault.addNote("Oats.md", oatsFrontmatter(), "")
	vault.addNote("Bare.md", nil, "")
	resolver := NoteIngredientResolver{Notes: vault}
	ctx := context.Background()

	got, err := resolver.ResolveIngredient(ctx, "Oats")
	require.NoError(t, err)
	assert.Equal(t, 379.0, got.Base.Calories)
	assert.Equal(t, domain.ServingOption{Label: "Cup", Grams: 80}, got.Options[0])

	_, err = resolver.ResolveIngredient(ctx, "Milk")
	assert.ErrorIs(t, err, domain.ErrUnresolvedIngredient)

	_, err = resolver.ResolveIngredient(ctx, "Bare")
	assert.ErrorIs(t, err, domain.ErrUnresolvedIngredient)
}
