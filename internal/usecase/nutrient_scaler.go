package usecase

import (
	"math"
	"strings"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// dailyValues maps nutrient keys to the amount representing 100% of the
// daily value on a 2,000 calorie diet. Trans fat and sugars have none.
var dailyValues = map[string]float64{
	domain.KeyFat:           78,
	domain.KeySaturatedFat:  20,
	domain.KeyCholesterol:   300,
	domain.KeySodium:        2300,
	domain.KeyCarbohydrates: 275,
	domain.KeyFiber:         28,
	domain.KeyProtein:       50,
	domain.KeyVitaminD:      20,
	domain.KeyCalcium:       1300,
	domain.KeyIron:          18,
	domain.KeyPotassium:     4700,
}

// nutrientAliases lets callers use the short names found in diary lines.
var nutrientAliases = map[string]string{
	"cal":           domain.KeyCalories,
	"carbs":         domain.KeyCarbohydrates,
	"carbohydrate":  domain.KeyCarbohydrates,
	"saturated fat": domain.KeySaturatedFat,
	"trans fat":     domain.KeyTransFat,
	"vitamin d":     domain.KeyVitaminD,
}

// Scale multiplies every nutrient by multiplier. The source record is not modified.
// A negative or non-finite multiplier scales to zero.
func Scale(record domain.NutrientRecord, multiplier float64) domain.NutrientRecord {
	m := sanitizeMultiplier(multiplier)
	return record.Map(func(v float64) float64 {
		return v * m
	})
}

// SafeMultiplier returns numerator/denominator, or 0 when the denominator is zero,
// negative or non-finite.
func SafeMultiplier(numerator, denominator float64) float64 {
	if denominator <= 0 || math.IsNaN(denominator) || math.IsInf(denominator, 0) {
		return 0
	}
	return sanitizeMultiplier(numerator / denominator)
}

// GramMultiplier is the multiplier for a gram-based serving eaten quantity times.
func GramMultiplier(grams, quantity float64) float64 {
	return sanitizeMultiplier(grams / 100 * quantity)
}

// PercentDailyValue returns round(amount*100/reference) for nutrients that have an
// established daily value. The result is not capped at 100.
func PercentDailyValue(nutrient string, amount float64) (int, bool) {
	reference, ok := dailyValues[normalizeNutrientKey(nutrient)]
	if !ok {
		return 0, false
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, true
	}
	return int(math.Round(amount * 100 / reference)), true
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func normalizeNutrientKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := nutrientAliases[name]; ok {
		return alias
	}
	return name
}

func sanitizeMultiplier(m float64) float64 {
	if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
		return 0
	}
	return m
}
