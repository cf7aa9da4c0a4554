package usda

import (
	"fmt"
	"math"
	"strings"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// FoodData Central nutrient IDs
const (
	NutrientIDEnergy          = 1008 // kcal
	NutrientIDEnergyGeneral   = 2047 // kcal, Atwater general factors
	NutrientIDEnergySpecific  = 2048 // kcal, Atwater specific factors
	NutrientIDProtein         = 1003
	NutrientIDCarbohydrate    = 1005
	NutrientIDTotalFat        = 1004
	NutrientIDSaturatedFat    = 1258
	NutrientIDTransFat        = 1257
	NutrientIDCholesterol     = 1253 // mg
	NutrientIDSodium          = 1093 // mg
	NutrientIDFiber           = 1079
	NutrientIDSugars          = 2000
	NutrientIDSugarsAlternate = 1063
	NutrientIDVitaminD        = 1114 // µg
	NutrientIDCalcium         = 1087 // mg
	NutrientIDIron            = 1089 // mg
	NutrientIDPotassium       = 1092 // mg
)

// DefaultFoodGroup is used when a food carries no category
const DefaultFoodGroup = "USDA"

// nutrientKeys maps nutrient IDs to food-note frontmatter keys
var nutrientKeys = map[int]string{
	NutrientIDEnergy:       domain.KeyCalories,
	NutrientIDProtein:      domain.KeyProtein,
	NutrientIDCarbohydrate: domain.KeyCarbohydrates,
	NutrientIDTotalFat:     domain.KeyFat,
	NutrientIDSaturatedFat: domain.KeySaturatedFat,
	NutrientIDTransFat:     domain.KeyTransFat,
	NutrientIDCholesterol:  domain.KeyCholesterol,
	NutrientIDSodium:       domain.KeySodium,
	NutrientIDFiber:        domain.KeyFiber,
	NutrientIDSugars:       domain.KeySugars,
	NutrientIDVitaminD:     domain.KeyVitaminD,
	NutrientIDCalcium:      domain.KeyCalcium,
	NutrientIDIron:         domain.KeyIron,
	NutrientIDPotassium:    domain.KeyPotassium,
}

// fallbacks are consulted when the primary ID of a key is absent
var fallbacks = map[string][]int{
	domain.KeyCalories: {NutrientIDEnergyGeneral, NutrientIDEnergySpecific},
	domain.KeySugars:   {NutrientIDSugarsAlternate},
}

// MapToFoodNote converts a FoodData Central food into a food note. USDA amounts are
// already per 100 g, so they are stored as-is, rounded to one decimal.
func MapToFoodNote(food *domain.USDAFood) domain.FoodNote {
	group := strings.TrimSpace(food.FoodGroup)
	if group == "" {
		group = DefaultFoodGroup
	}

	return domain.FoodNote{
		Name:      NoteName(food.Description),
		Group:     group,
		Source:    fmt.Sprintf("USDA %d", food.FdcID),
		Nutrients: ExtractNutrients(food.Nutrients),
		Servings:  []domain.ServingOption{{Label: "Default", Grams: 100}},
	}
}

// ExtractNutrients fills a record from a USDA nutrient list
func ExtractNutrients(nutrients []domain.USDANutrient) domain.NutrientRecord {
	var record domain.NutrientRecord
	seen := make(map[string]bool, len(nutrientKeys))

	for _, n := range nutrients {
		key, ok := nutrientKeys[n.NutrientID]
		if !ok {
			continue
		}
		record = record.With(key, roundTenth(n.Value))
		seen[key] = true
	}

	for key, ids := range fallbacks {
		if seen[key] {
			continue
		}
		for _, id := range ids {
			if v, ok := FindNutrientValue(nutrients, id); ok {
				record = record.With(key, roundTenth(v))
				break
			}
		}
	}

	return record
}

// FindNutrientValue finds a specific nutrient value by ID
func FindNutrientValue(nutrients []domain.USDANutrient, nutrientID int) (float64, bool) {
	for _, nutrient := range nutrients {
		if nutrient.NutrientID == nutrientID {
			return nutrient.Value, true
		}
	}
	return 0, false
}

// NoteName turns a USDA description into a file-safe note name
func NoteName(description string) string {
	replacer := strings.NewReplacer("/", "-", `\`, "-", ":", " -", "#", "", "|", "-", "[", "(", "]", ")")
	return strings.Join(strings.Fields(replacer.Replace(description)), " ")
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
