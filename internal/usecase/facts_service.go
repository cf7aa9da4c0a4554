package usecase

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// factLabels describes the panel rows below the calories line, in label order
var factLabels = []struct {
	key   string
	label string
	unit  string
}{
	{domain.KeyFat, "Total Fat", "g"},
	{domain.KeySaturatedFat, "Saturated Fat", "g"},
	{domain.KeyTransFat, "Trans Fat", "g"},
	{domain.KeyCholesterol, "Cholesterol", "mg"},
	{domain.KeySodium, "Sodium", "mg"},
	{domain.KeyCarbohydrates, "Total Carbohydrate", "g"},
	{domain.KeyFiber, "Fiber", "g"},
	{domain.KeySugars, "Sugars", "g"},
	{domain.KeyProtein, "Protein", "g"},
	{domain.KeyVitaminD, "Vitamin D", "mcg"},
	{domain.KeyCalcium, "Calcium", "mg"},
	{domain.KeyIron, "Iron", "mg"},
	{domain.KeyPotassium, "Potassium", "mg"},
}

// BuildFacts turns scaled nutrients into a facts panel. Amounts are rounded to whole
// units; percent daily values are computed from the unrounded amounts.
func BuildFacts(scaled domain.NutrientRecord, servingSize string) domain.NutritionFacts {
	facts := domain.NutritionFacts{
		ServingSize: servingSize,
		Calories:    int(math.Round(scaled.Calories)),
		Rows:        make([]domain.FactRow, 0, len(factLabels)),
	}

	for _, fl := range factLabels {
		amount := scaled.Get(fl.key)
		row := domain.FactRow{
			Key:    fl.key,
			Label:  fl.label,
			Amount: int(math.Round(amount)),
			Unit:   fl.unit,
		}
		if pct, ok := PercentDailyValue(fl.key, amount); ok {
			row.PercentDV = &pct
		}
		facts.Rows = append(facts.Rows, row)
	}

	return facts
}

// FactsServiceConfig holds configuration for the facts service
type FactsServiceConfig struct {
	EnableDebugLogging bool
}

// FactsService builds nutrition facts panels for food notes
type FactsService struct {
	metadata           domain.MetadataAccessor
	enableDebugLogging bool
}

// FoodFacts is a food note's panel for one serving plus the serving choices
type FoodFacts struct {
	NoteID   string                 `json:"noteId"`
	Serving  domain.ServingOption   `json:"serving"`
	Servings []domain.ServingOption `json:"servings"`
	Facts    domain.NutritionFacts  `json:"facts"`
}

// NewFactsService creates a new facts service
func NewFactsService(metadata domain.MetadataAccessor, config FactsServiceConfig) *FactsService {
	return &FactsService{
		metadata:           metadata,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// FoodFacts renders the panel of a food note for the serving whose label equals
// servingLabel, or for the first serving when servingLabel is empty.
func (s *FactsService) FoodFacts(ctx context.Context, noteID, servingLabel string) (*FoodFacts, error) {
	if noteID == "" {
		return nil, domain.ErrInvalidRequest
	}

	fm, err := s.metadata.Frontmatter(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if len(fm) == 0 {
		return nil, domain.ErrNoData
	}

	servings := ServingsFromFrontmatter(fm[domain.KeyServings])
	serving := servings[0]
	if servingLabel != "" {
		label := servingLabel
		if parsed, err := ParseServing(servingLabel); err == nil {
			label = parsed.Label
		}
		found, ok := FindServing(servings, label)
		if !ok {
			return nil, fmt.Errorf("%w: serving %q not defined for %s", domain.ErrInvalidRequest, servingLabel, noteID)
		}
		serving = found
	}

	base := NutrientsFromFrontmatter(fm)
	scaled := Scale(base, GramMultiplier(serving.Grams, 1))

	if s.enableDebugLogging {
		log.Printf("[FACTS] %s serving=%q grams=%s", noteID, serving.Label, formatNumber(serving.Grams))
	}

	return &FoodFacts{
		NoteID:   noteID,
		Serving:  serving,
		Servings: servings,
		Facts:    BuildFacts(scaled, fmt.Sprintf("%s (%sg)", serving.Label, formatNumber(serving.Grams))),
	}, nil
}
