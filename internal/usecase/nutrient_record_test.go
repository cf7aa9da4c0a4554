package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

func TestNutrientsFromFrontmatter(t *testing.T) {
	fm := map[string]any{
		"calories":      379,
		"fat":           6.5,
		"SaturatedFat":  "1.1",
		"sodium":        "n/a",
		"protein":       -3,
		"carbohydrates": int64(67),
		"servings":      []any{"Cup | 80g"},
	}

	got := NutrientsFromFrontmatter(fm)

	assert.Equal(t, 379.0, got.Calories)
	assert.Equal(t, 6.5, got.Fat)
	assert.Equal(t, 1.1, got.SaturatedFat, "keys match ignoring case")
	assert.Equal(t, 0.0, got.Sodium, "non-numeric reads as zero")
	assert.Equal(t, 0.0, got.Protein, "negative reads as zero")
	assert.Equal(t, 67.0, got.Carbohydrates)
	assert.Equal(t, 0.0, got.Potassium, "missing reads as zero")
}

func TestNutrientRecordHelpers(t *testing.T) {
	r := domain.NutrientRecord{}.With(domain.KeyIron, 2).With("unknown", 5)
	assert.Equal(t, 2.0, r.Get(domain.KeyIron))
	assert.Equal(t, 0.0, r.Get("unknown"))

	sum := r.Add(domain.NutrientRecord{Iron: 1, Calcium: 3})
	assert.Equal(t, domain.NutrientRecord{Iron: 3, Calcium: 3}, sum)

	assert.True(t, domain.NutrientRecord{}.IsZero())
	assert.False(t, sum.IsZero())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "150", formatNumber(150))
	assert.Equal(t, "2.5", formatNumber(2.5))
	assert.Equal(t, "0.1", formatNumber(0.1))
	assert.Equal(t, "1000000", formatNumber(1e6))
}
