package usecase

import (
	"strconv"
	"strings"
	"time"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// MealSuggester picks a meal slot for the current time of day
type MealSuggester struct {
	meals []domain.Meal
}

// NewMealSuggester creates a suggester over the configured meals
func NewMealSuggester(meals []domain.Meal) *MealSuggester {
	return &MealSuggester{meals: meals}
}

// Suggest returns the meal whose default hour is closest to the hour of now.
// Ties keep the meal listed first; meals without a readable default time are
// never suggested.
func (m *MealSuggester) Suggest(now time.Time) (domain.Meal, bool) {
	var best domain.Meal
	bestDiff := -1

	for _, meal := range m.meals {
		hour, ok := mealHour(meal.DefaultTime)
		if !ok {
			continue
		}
		diff := hour - now.Hour()
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = meal, diff
		}
	}

	return best, bestDiff >= 0
}

// mealHour reads the hour of an "HH:MM" time
func mealHour(defaultTime string) (int, bool) {
	h, _, _ := strings.Cut(strings.TrimSpace(defaultTime), ":")
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}
