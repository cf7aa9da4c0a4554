package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// FoodLogVault is what the log service reads from and writes to
type FoodLogVault interface {
	domain.MetadataAccessor
	domain.TextAccessor
	domain.NoteResolver
	domain.NoteWriter
	domain.JournalLocator
}

// FoodLogServiceConfig holds configuration for the food log service
type FoodLogServiceConfig struct {
	TaskPrefix         string
	NestEntries        bool
	CreateMissing      bool
	EnableDebugLogging bool
}

// FoodLogService turns log requests into diary lines
type FoodLogService struct {
	vault              FoodLogVault
	recipes            *RecipeService
	format             FormatOptions
	createMissing      bool
	enableDebugLogging bool
}

// LogRequest describes one food to log
type LogRequest struct {
	Date     time.Time `json:"date"`
	Time     string    `json:"time"`
	Meal     string    `json:"meal"`
	Food     string    `json:"food"`
	Serving  string    `json:"serving,omitempty"`
	Quantity float64   `json:"quantity,omitempty"`

	// Manual entries carry their own macros and no food note
	Manual   bool    `json:"manual,omitempty"`
	Calories float64 `json:"calories,omitempty"`
	Fat      float64 `json:"fat,omitempty"`
	Carbs    float64 `json:"carbs,omitempty"`
	Protein  float64 `json:"protein,omitempty"`

	// RecipeNote names the recipe the ingredient is added to when Meal is "Recipe"
	RecipeNote string `json:"recipeNote,omitempty"`
}

// LogResult reports where a line was written
type LogResult struct {
	NoteID string            `json:"noteId"`
	Line   string            `json:"line"`
	Entry  domain.DiaryEntry `json:"entry"`
}

// NewFoodLogService creates a new food log service
func NewFoodLogService(vault FoodLogVault, recipes *RecipeService, config FoodLogServiceConfig) *FoodLogService {
	prefix := config.TaskPrefix
	if prefix == "" {
		prefix = "c"
	}
	return &FoodLogService{
		vault:              vault,
		recipes:            recipes,
		format:             FormatOptions{Prefix: prefix, Nest: config.NestEntries},
		createMissing:      config.CreateMissing,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// LogFood scales the requested food, formats the diary line and appends it to the
// journal note of the date, or to the recipe note when logging into a recipe.
func (s *FoodLogService) LogFood(ctx context.Context, req LogRequest) (*LogResult, error) {
	if err := validateLogRequest(&req); err != nil {
		return nil, err
	}

	entry := domain.DiaryEntry{
		Date:      req.Date.Format("2006-01-02"),
		Time:      req.Time,
		Meal:      req.Meal,
		FoodLabel: req.Food,
		Quantity:  req.Quantity,
		Manual:    req.Manual,
	}

	if req.Manual {
		entry.Nutrients = domain.NutrientRecord{}.
			With(domain.KeyCalories, req.Calories).
			With(domain.KeyFat, req.Fat).
			With(domain.KeyCarbohydrates, req.Carbs).
			With(domain.KeyProtein, req.Protein)
	} else {
		serving, scaled, err := s.scaleFood(ctx, req)
		if err != nil {
			return nil, err
		}
		entry.Serving = serving
		entry.Nutrients = scaled
	}
	entry.Nutrients = roundDiaryMacros(entry.Nutrients)

	target, err := s.targetNote(ctx, req)
	if err != nil {
		return nil, err
	}

	line := FormatEntry(entry, s.format)
	if err := s.vault.AppendLine(ctx, target, line); err != nil {
		return nil, fmt.Errorf("append to %s: %w", target, err)
	}

	if s.enableDebugLogging {
		log.Printf("[LOG] %s <- %s", target, line)
	}

	return &LogResult{NoteID: target, Line: line, Entry: entry}, nil
}

func validateLogRequest(req *LogRequest) error {
	req.Meal = strings.TrimSpace(req.Meal)
	req.Food = strings.TrimSpace(req.Food)
	req.Time = strings.TrimSpace(req.Time)

	switch {
	case req.Date.IsZero():
		return fmt.Errorf("%w: date is required", domain.ErrInvalidRequest)
	case req.Time == "":
		return fmt.Errorf("%w: time is required", domain.ErrInvalidRequest)
	case req.Meal == "":
		return fmt.Errorf("%w: meal is required", domain.ErrInvalidRequest)
	case req.Food == "":
		return fmt.Errorf("%w: food is required", domain.ErrInvalidRequest)
	}

	if math.IsNaN(req.Quantity) || math.IsInf(req.Quantity, 0) || req.Quantity < 0 {
		return fmt.Errorf("%w: quantity must be a positive number", domain.ErrInvalidRequest)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if req.Meal == domain.RecipeMeal && !req.Manual && strings.TrimSpace(req.RecipeNote) == "" {
		return fmt.Errorf("%w: recipe note is required when logging into a recipe", domain.ErrInvalidRequest)
	}
	return nil
}

// scaleFood resolves the food note and returns the serving text and scaled nutrients
func (s *FoodLogService) scaleFood(ctx context.Context, req LogRequest) (string, domain.NutrientRecord, error) {
	noteID, err := s.vault.ResolveNoteID(ctx, req.Food)
	if err != nil {
		return "", domain.NutrientRecord{}, err
	}

	if IsRecipeFraction(req.Serving) {
		fraction, err := ParseRecipeFraction(req.Serving)
		if err != nil {
			return "", domain.NutrientRecord{}, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		summary, err := s.recipes.Summarize(ctx, noteID)
		if err != nil {
			return "", domain.NutrientRecord{}, err
		}
		m := req.Quantity * SafeMultiplier(float64(fraction.Numerator), float64(fraction.Denominator))
		return strings.TrimSpace(req.Serving), Scale(summary.Totals.Total, m), nil
	}

	fm, err := s.vault.Frontmatter(ctx, noteID)
	if err != nil {
		return "", domain.NutrientRecord{}, err
	}
	if len(fm) == 0 {
		return "", domain.NutrientRecord{}, fmt.Errorf("%w: %s", domain.ErrNoData, noteID)
	}

	options := ServingsFromFrontmatter(fm[domain.KeyServings])
	serving, err := pickServing(options, req.Serving)
	if err != nil {
		return "", domain.NutrientRecord{}, err
	}

	base := NutrientsFromFrontmatter(fm)
	return FormatServing(serving), Scale(base, GramMultiplier(serving.Grams, req.Quantity)), nil
}

// pickServing accepts a full "label | Ng" string, a bare label defined on the note,
// or nothing for the note's first serving
func pickServing(options []domain.ServingOption, raw string) (domain.ServingOption, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return options[0], nil
	}
	if strings.Contains(raw, " | ") {
		opt, err := ParseServing(raw)
		if err != nil {
			return domain.ServingOption{}, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		return opt, nil
	}
	if opt, ok := FindServing(options, raw); ok {
		return opt, nil
	}
	return domain.ServingOption{}, fmt.Errorf("%w: unknown serving %q", domain.ErrInvalidRequest, raw)
}

// targetNote picks the note the line goes to, creating a missing journal note when
// configured to
func (s *FoodLogService) targetNote(ctx context.Context, req LogRequest) (string, error) {
	if req.Meal == domain.RecipeMeal && !req.Manual {
		return s.vault.ResolveNoteID(ctx, req.RecipeNote)
	}

	noteID := s.vault.JournalNoteID(req.Date)
	_, err := s.vault.ReadText(ctx, noteID)
	if err == nil {
		return noteID, nil
	}
	if !errors.Is(err, domain.ErrNoteNotFound) || !s.createMissing {
		return "", err
	}

	if err := s.vault.CreateNote(ctx, noteID, nil); err != nil && !errors.Is(err, domain.ErrNoteExists) {
		return "", fmt.Errorf("create journal note %s: %w", noteID, err)
	}
	if s.enableDebugLogging {
		log.Printf("[LOG] created journal note %s", noteID)
	}
	return noteID, nil
}

// roundDiaryMacros rounds calories to a whole number and the macros to one decimal
func roundDiaryMacros(r domain.NutrientRecord) domain.NutrientRecord {
	r.Calories = math.Round(r.Calories)
	r.Fat = RoundTo(r.Fat, 1)
	r.Carbohydrates = RoundTo(r.Carbohydrates, 1)
	r.Protein = RoundTo(r.Protein, 1)
	return r
}
