package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// labelDailyValues are the reference amounts a "%" entry on a nutrition label refers to
var labelDailyValues = map[string]float64{
	domain.KeyFat:           78,
	domain.KeySaturatedFat:  20,
	domain.KeyTransFat:      1,
	domain.KeyCholesterol:   300,
	domain.KeySodium:        2300,
	domain.KeyCarbohydrates: 275,
	domain.KeyFiber:         28,
	domain.KeySugars:        200,
	domain.KeyProtein:       50,
	domain.KeyVitaminD:      20,
	domain.KeyCalcium:       1300,
	domain.KeyIron:          18,
	domain.KeyPotassium:     4700,
}

// FoodNoteServiceConfig holds configuration for the food note service
type FoodNoteServiceConfig struct {
	FoodFolder         string
	FoodGroups         []string
	EnableDebugLogging bool
}

// FoodNoteService creates food notes from nutrition label values
type FoodNoteService struct {
	writer             domain.NoteWriter
	folder             string
	groups             []string
	enableDebugLogging bool
}

// CreateFoodRequest is a nutrition label as typed in by the user. Nutrient values are
// per serving, either absolute ("12") or a percent of daily value ("15%").
type CreateFoodRequest struct {
	Name               string            `json:"name"`
	Group              string            `json:"group"`
	ServingDescription string            `json:"servingDescription"`
	ServingGrams       float64           `json:"servingGrams"`
	ContainerGrams     float64           `json:"containerGrams,omitempty"`
	Calories           float64           `json:"calories"`
	Nutrients          map[string]string `json:"nutrients,omitempty"`
}

// NewFoodNoteService creates a new food note service
func NewFoodNoteService(writer domain.NoteWriter, config FoodNoteServiceConfig) *FoodNoteService {
	return &FoodNoteService{
		writer:             writer,
		folder:             config.FoodFolder,
		groups:             config.FoodGroups,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// CreateFoodNote normalizes the label to per-100 g values and writes a new food note.
func (s *FoodNoteService) CreateFoodNote(ctx context.Context, req CreateFoodRequest) (string, error) {
	note, err := s.BuildFoodNote(req)
	if err != nil {
		return "", err
	}

	noteID, err := s.writer.WriteFoodNote(ctx, s.folder, note)
	if err != nil {
		return "", err
	}

	if s.enableDebugLogging {
		log.Printf("[FOODNOTE] created %s (%d servings)", noteID, len(note.Servings))
	}
	return noteID, nil
}

// BuildFoodNote validates the request and converts it without writing anything.
func (s *FoodNoteService) BuildFoodNote(req CreateFoodRequest) (domain.FoodNote, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Group = strings.TrimSpace(req.Group)
	req.ServingDescription = strings.TrimSpace(req.ServingDescription)

	switch {
	case req.Name == "":
		return domain.FoodNote{}, fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	case strings.ContainsAny(req.Name, `/\`):
		return domain.FoodNote{}, fmt.Errorf("%w: name must not contain path separators", domain.ErrInvalidRequest)
	case req.Group == "":
		return domain.FoodNote{}, fmt.Errorf("%w: group is required", domain.ErrInvalidRequest)
	case req.ServingDescription == "":
		return domain.FoodNote{}, fmt.Errorf("%w: serving description is required", domain.ErrInvalidRequest)
	case !positive(req.ServingGrams):
		return domain.FoodNote{}, fmt.Errorf("%w: serving grams must be positive", domain.ErrInvalidRequest)
	case math.IsNaN(req.Calories) || math.IsInf(req.Calories, 0):
		return domain.FoodNote{}, fmt.Errorf("%w: calories must be a number", domain.ErrInvalidRequest)
	}

	if len(s.groups) > 0 && !containsFold(s.groups, req.Group) {
		return domain.FoodNote{}, fmt.Errorf("%w: unknown food group %q", domain.ErrInvalidRequest, req.Group)
	}

	per100 := 100 / req.ServingGrams
	record := domain.NutrientRecord{}.With(domain.KeyCalories, RoundTo(req.Calories*per100, 1))

	for name, raw := range req.Nutrients {
		key := normalizeNutrientKey(name)
		amount, err := labelAmount(key, raw)
		if err != nil {
			return domain.FoodNote{}, err
		}
		record = record.With(key, RoundTo(amount*per100, 1))
	}

	servings := []domain.ServingOption{
		DefaultServing,
		{Label: req.ServingDescription, Grams: req.ServingGrams},
	}
	if positive(req.ContainerGrams) {
		servings = append(servings, domain.ServingOption{Label: "Container", Grams: req.ContainerGrams})
	}

	return domain.FoodNote{
		Name:      req.Name,
		Group:     req.Group,
		Nutrients: record,
		Servings:  servings,
	}, nil
}

// labelAmount reads one label cell. Blank cells are zero; "N%" is converted with the
// label daily value of the nutrient.
func labelAmount(key, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	if _, ok := labelDailyValues[key]; !ok {
		return 0, fmt.Errorf("%w: unknown nutrient %q", domain.ErrInvalidRequest, key)
	}

	pct := strings.HasSuffix(raw, "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(raw, "%")), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s value %q is not a number", domain.ErrInvalidRequest, key, raw)
	}
	if pct {
		v = v * labelDailyValues[key] / 100
	}
	return v, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
