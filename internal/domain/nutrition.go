package domain

import "math"

// NutrientRecord holds the 14 tracked nutrients.
// Sourced from a food note it is the amount per 100 grams; once scaled it is
// the amount for one logged occurrence.
type NutrientRecord struct {
	Calories      float64 `json:"calories"`
	Fat           float64 `json:"fat"`           // grams
	SaturatedFat  float64 `json:"saturatedFat"`  // grams
	TransFat      float64 `json:"transFat"`      // grams
	Cholesterol   float64 `json:"cholesterol"`   // milligrams
	Sodium        float64 `json:"sodium"`        // milligrams
	Carbohydrates float64 `json:"carbohydrates"` // grams
	Fiber         float64 `json:"fiber"`         // grams
	Sugars        float64 `json:"sugars"`        // grams
	Protein       float64 `json:"protein"`       // grams
	VitaminD      float64 `json:"vitaminD"`      // micrograms
	Calcium       float64 `json:"calcium"`       // milligrams
	Iron          float64 `json:"iron"`          // milligrams
	Potassium     float64 `json:"potassium"`     // milligrams
}

// Frontmatter keys of the nutrient block in a food note.
const (
	KeyCalories      = "calories"
	KeyFat           = "fat"
	KeySaturatedFat  = "saturatedfat"
	KeyTransFat      = "transfat"
	KeyCholesterol   = "cholesterol"
	KeySodium        = "sodium"
	KeyCarbohydrates = "carbohydrates"
	KeyFiber         = "fiber"
	KeySugars        = "sugars"
	KeyProtein       = "protein"
	KeyVitaminD      = "vitamind"
	KeyCalcium       = "calcium"
	KeyIron          = "iron"
	KeyPotassium     = "potassium"

	KeyServings = "servings"
)

// NutrientKeys lists the nutrient keys in nutrition-label order.
var NutrientKeys = []string{
	KeyCalories, KeyFat, KeySaturatedFat, KeyTransFat, KeyCholesterol,
	KeySodium, KeyCarbohydrates, KeyFiber, KeySugars, KeyProtein,
	KeyVitaminD, KeyCalcium, KeyIron, KeyPotassium,
}

// Get returns the value stored under a frontmatter key.
func (r NutrientRecord) Get(key string) float64 {
	if p := r.field(key); p != nil {
		return *p
	}
	return 0
}

// With returns a copy of r with the nutrient under key set to v.
// Negative or non-finite values are stored as 0.
func (r NutrientRecord) With(key string, v float64) NutrientRecord {
	if p := r.field(key); p != nil {
		*p = sanitize(v)
	}
	return r
}

// Map applies fn to every nutrient and returns the result as a new record.
func (r NutrientRecord) Map(fn func(float64) float64) NutrientRecord {
	out := r
	for _, key := range NutrientKeys {
		*out.field(key) = fn(r.Get(key))
	}
	return out
}

// Add returns the field-wise sum of r and o.
func (r NutrientRecord) Add(o NutrientRecord) NutrientRecord {
	out := r
	for _, key := range NutrientKeys {
		*out.field(key) = r.Get(key) + o.Get(key)
	}
	return out
}

// IsZero reports whether every nutrient is zero.
func (r NutrientRecord) IsZero() bool {
	return r == NutrientRecord{}
}

// field returns a pointer into r for the key. Callers use it on copies only.
func (r *NutrientRecord) field(key string) *float64 {
	switch key {
	case KeyCalories:
		return &r.Calories
	case KeyFat:
		return &r.Fat
	case KeySaturatedFat:
		return &r.SaturatedFat
	case KeyTransFat:
		return &r.TransFat
	case KeyCholesterol:
		return &r.Cholesterol
	case KeySodium:
		return &r.Sodium
	case KeyCarbohydrates:
		return &r.Carbohydrates
	case KeyFiber:
		return &r.Fiber
	case KeySugars:
		return &r.Sugars
	case KeyProtein:
		return &r.Protein
	case KeyVitaminD:
		return &r.VitaminD
	case KeyCalcium:
		return &r.Calcium
	case KeyIron:
		return &r.Iron
	case KeyPotassium:
		return &r.Potassium
	}
	return nil
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ServingOption is a named, gram-denominated portion of a food.
type ServingOption struct {
	Label string  `json:"label"`
	Grams float64 `json:"grams"`
}

// RecipeFractionServing is a portion expressed as a fraction of a whole recipe,
// e.g. "1/4 of Recipe".
type RecipeFractionServing struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// IngredientLine is one completed ingredient task inside a recipe note.
type IngredientLine struct {
	IngredientName string  `json:"ingredientName"`
	ServingLabel   string  `json:"servingLabel"`
	Quantity       float64 `json:"quantity"`
}

// ResolvedIngredient is what a resolver knows about an ingredient note.
type ResolvedIngredient struct {
	Options []ServingOption `json:"options"`
	Base    NutrientRecord  `json:"base"`
}

// RecipeTotals is the result of aggregating a recipe's ingredients.
// Failed lists ingredients that contributed nothing.
type RecipeTotals struct {
	Total  NutrientRecord `json:"total"`
	Failed []string       `json:"failed,omitempty"`
}

// FactRow is one line of a nutrition facts panel.
type FactRow struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Amount    int    `json:"amount"`
	Unit      string `json:"unit"`
	PercentDV *int   `json:"percentDailyValue,omitempty"`
}

// NutritionFacts is a rendered-ready nutrition facts panel.
type NutritionFacts struct {
	ServingSize string    `json:"servingSize"`
	Calories    int       `json:"calories"`
	Rows        []FactRow `json:"rows"`
}

// FoodNote is the content of a new food note.
type FoodNote struct {
	Name      string          `json:"name"`
	Group     string          `json:"group"`
	Source    string          `json:"source,omitempty"` // e.g. "USDA 170287"
	Nutrients NutrientRecord  `json:"nutrients"`
	Servings  []ServingOption `json:"servings"`
}
