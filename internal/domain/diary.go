package domain

// Meal is a configured meal slot.
type Meal struct {
	Name        string `json:"name" mapstructure:"name"`
	Emoji       string `json:"emoji" mapstructure:"emoji"`
	DefaultTime string `json:"defaultTime" mapstructure:"default_time"` // "HH:MM"
}

// RecipeMeal is the pseudo-meal used when logging an ingredient into a recipe note.
const RecipeMeal = "Recipe"

// DiaryEntry is a food entry about to be written as a diary line.
type DiaryEntry struct {
	Date      string         `json:"date"` // YYYY-MM-DD
	Time      string         `json:"time"` // HH:MM
	Meal      string         `json:"meal"`
	FoodLabel string         `json:"foodLabel"`
	Serving   string         `json:"serving"`
	Quantity  float64        `json:"quantity"`
	Manual    bool           `json:"manual"`
	Nutrients NutrientRecord `json:"nutrients"`
}

// DiaryLine holds the headline macros recovered from one journal line.
type DiaryLine struct {
	Meal      string  `json:"meal"`
	Calories  float64 `json:"calories"`
	Fat       float64 `json:"fat"`
	Carbs     float64 `json:"carbs"`
	Protein   float64 `json:"protein"`
	Completed bool    `json:"completed"`
}

// MealSummary is one row of the day summary table.
type MealSummary struct {
	MealName string  `json:"meal"`
	Calories float64 `json:"calories"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
}

// TotalRowName names the synthesized last row of a day summary.
const TotalRowName = "Total"

// Task is a checklist line as seen by the task index.
type Task struct {
	Description string `json:"description"`
	Symbol      string `json:"symbol"`
	Completed   bool   `json:"completed"`
}

// FoodItem is a food, USDA or recipe note offered for logging.
type FoodItem struct {
	Name   string `json:"name"`
	NoteID string `json:"noteId"`
	Recipe bool   `json:"recipe"`
}
