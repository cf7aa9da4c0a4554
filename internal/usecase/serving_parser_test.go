package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

func TestParseServing(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    domain.ServingOption
		wantErr bool
	}{
		{name: "simple", raw: "Cup | 240g", want: domain.ServingOption{Label: "Cup", Grams: 240}},
		{name: "decimal grams", raw: "1 tbsp | 14.5g", want: domain.ServingOption{Label: "1 tbsp", Grams: 14.5}},
		{name: "zero grams", raw: "Pinch | 0g", want: domain.ServingOption{Label: "Pinch", Grams: 0}},
		{name: "space before unit", raw: "Slice | 28 g", want: domain.ServingOption{Label: "Slice", Grams: 28}},
		{name: "label with spaces trimmed", raw: "  Large egg  | 50g ", want: domain.ServingOption{Label: "Large egg", Grams: 50}},
		{name: "missing separator", raw: "Cup 240g", wantErr: true},
		{name: "separator without spaces", raw: "Cup|240g", wantErr: true},
		{name: "two separators", raw: "Cup | 240g | extra", wantErr: true},
		{name: "missing unit", raw: "Cup | 240", wantErr: true},
		{name: "ounces", raw: "Cup | 8oz", wantErr: true},
		{name: "non-numeric grams", raw: "Cup | manyg", wantErr: true},
		{name: "negative grams", raw: "Cup | -5g", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseServing(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrMalformedServing)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseServingList(t *testing.T) {
	t.Run("keeps valid entries in order", func(t *testing.T) {
		got := ParseServingList([]string{"Cup | 240g", "broken", "Tbsp | 15g"})
		assert.Equal(t, []domain.ServingOption{
			{Label: "Cup", Grams: 240},
			{Label: "Tbsp", Grams: 15},
		}, got)
	})

	t.Run("falls back to the default serving", func(t *testing.T) {
		assert.Equal(t, []domain.ServingOption{DefaultServing}, ParseServingList(nil))
		assert.Equal(t, []domain.ServingOption{DefaultServing}, ParseServingList([]string{"nope"}))
	})
}

func TestServingsFromFrontmatter(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []domain.ServingOption
	}{
		{"yaml list", []any{"Cup | 240g", 42, "Tbsp | 15g"}, []domain.ServingOption{{Label: "Cup", Grams: 240}, {Label: "Tbsp", Grams: 15}}},
		{"string slice", []string{"Bar | 40g"}, []domain.ServingOption{{Label: "Bar", Grams: 40}}},
		{"single string", "Bar | 40g", []domain.ServingOption{{Label: "Bar", Grams: 40}}},
		{"absent", nil, []domain.ServingOption{DefaultServing}},
		{"wrong type", 12, []domain.ServingOption{DefaultServing}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ServingsFromFrontmatter(tt.value))
		})
	}
}

func TestParseRecipeFraction(t *testing.T) {
	got, err := ParseRecipeFraction("1/4 of Recipe")
	require.NoError(t, err)
	assert.Equal(t, domain.RecipeFractionServing{Numerator: 1, Denominator: 4}, got)

	got, err = ParseRecipeFraction(" 3 / 8 of recipe ")
	require.NoError(t, err)
	assert.Equal(t, domain.RecipeFractionServing{Numerator: 3, Denominator: 8}, got)

	for _, raw := range []string{"1/4", "half of Recipe", "1/4 of Cake", "Cup | 240g"} {
		_, err := ParseRecipeFraction(raw)
		assert.ErrorIs(t, err, domain.ErrMalformedServing, raw)
		assert.False(t, IsRecipeFraction(raw), raw)
	}
	assert.True(t, IsRecipeFraction("1/2 of Recipe"))
}

func TestRecipeFractionOptions(t *testing.T) {
	assert.Equal(t, []string{"1/4 of Recipe"}, RecipeFractionOptions(4))
	assert.Equal(t, []string{"1/1 of Recipe"}, RecipeFractionOptions(0))
}

func TestFindAndMatchServing(t *testing.T) {
	options := []domain.ServingOption{
		{Label: "1 cup, chopped", Grams: 150},
		{Label: "Cup", Grams: 240},
	}

	opt, ok := FindServing(options, " cup ")
	require.True(t, ok)
	assert.Equal(t, 240.0, opt.Grams)

	// substring match takes the first option containing the label
	opt, ok = MatchServing(options, "CUP")
	require.True(t, ok)
	assert.Equal(t, 150.0, opt.Grams)

	_, ok = FindServing(options, "slice")
	assert.False(t, ok)
	_, ok = MatchServing(options, "")
	assert.False(t, ok)
}

func TestFormatServing(t *testing.T) {
	assert.Equal(t, "Cup | 240g", FormatServing(domain.ServingOption{Label: "Cup", Grams: 240}))
	assert.Equal(t, "Tbsp | 14.5g", FormatServing(domain.ServingOption{Label: "Tbsp", Grams: 14.5}))
}
