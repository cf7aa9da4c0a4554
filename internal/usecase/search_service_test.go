package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

func TestSearchService_SearchFoods(t *testing.T) {
	vault := NewMockVault()
	vault.foods = []domain.FoodItem{
		{Name: "Rolled Oats", NoteID: "Food/Rolled Oats.md"},
		{Name: "oat milk", NoteID: "Food/oat milk.md"},
		{Name: "Banana", NoteID: "Food/Banana.md"},
		{Name: "Oatmeal Cookies", NoteID: "Recipes/Oatmeal Cookies.md", Recipe: true},
	}

	names := func(items []domain.FoodItem) []string {
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = item.Name
		}
		return out
	}

	tests := []struct {
		name       string
		maxResults int
		query      string
		want       []string
	}{
		{"substring ignoring case", 0, "OAT", []string{"oat milk", "Oatmeal Cookies", "Rolled Oats"}},
		{"empty query lists everything", 0, "  ", []string{"Banana", "oat milk", "Oatmeal Cookies", "Rolled Oats"}},
		{"capped", 2, "", []string{"Banana", "oat milk"}},
		{"no match", 0, "quinoa", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSearchService(vault, SearchServiceConfig{MaxResults: tt.maxResults})

			got, err := service.SearchFoods(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}
