package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// Serving size captions of the recipe panel
const (
	recipeServingCaption = "1 Serving"
	recipeTotalCaption   = "Total Recipe"
)

// RecipeVault is what the recipe service reads from the vault
type RecipeVault interface {
	domain.TaskAccessor
	domain.TextAccessor
	NoteMetadata
}

// NoteMetadata resolves note names and reads their frontmatter
type NoteMetadata interface {
	domain.NoteResolver
	domain.MetadataAccessor
}

// NoteIngredientResolver resolves an ingredient by reading its food note
type NoteIngredientResolver struct {
	Notes NoteMetadata
}

// ResolveIngredient implements domain.IngredientResolver
func (r NoteIngredientResolver) ResolveIngredient(ctx context.Context, name string) (domain.ResolvedIngredient, error) {
	noteID, err := r.Notes.ResolveNoteID(ctx, name)
	if err != nil {
		return domain.ResolvedIngredient{}, fmt.Errorf("%w: %s: %v", domain.ErrUnresolvedIngredient, name, err)
	}

	fm, err := r.Notes.Frontmatter(ctx, noteID)
	if err != nil {
		return domain.ResolvedIngredient{}, fmt.Errorf("%w: %s: %v", domain.ErrUnresolvedIngredient, name, err)
	}

	return domain.ResolvedIngredient{
		Options: ServingsFromFrontmatter(fm[domain.KeyServings]),
		Base:    NutrientsFromFrontmatter(fm),
	}, nil
}

// RecipeServiceConfig holds configuration for the recipe service
type RecipeServiceConfig struct {
	EnableDebugLogging bool
}

// RecipeService aggregates recipe notes
type RecipeService struct {
	vault              RecipeVault
	enableDebugLogging bool
}

// RecipeSummary is a recipe's summed nutrients and its yield
type RecipeSummary struct {
	NoteID   string              `json:"noteId"`
	Servings int                 `json:"servings"`
	Totals   domain.RecipeTotals `json:"totals"`
}

// RecipeFacts is the facts panel of a recipe, whole or per serving
type RecipeFacts struct {
	RecipeSummary
	PerServing     bool                  `json:"perServing"`
	Facts          domain.NutritionFacts `json:"facts"`
	ServingOptions []string              `json:"servingOptions"` // choices for logging the recipe
}

// NewRecipeService creates a new recipe service
func NewRecipeService(vault RecipeVault, config RecipeServiceConfig) *RecipeService {
	return &RecipeService{
		vault:              vault,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Summarize aggregates the completed ingredient tasks of a recipe note.
func (s *RecipeService) Summarize(ctx context.Context, noteID string) (*RecipeSummary, error) {
	if noteID == "" {
		return nil, domain.ErrInvalidRequest
	}

	tasks, err := s.vault.Tasks(ctx, noteID)
	if err != nil {
		return nil, err
	}

	text, err := s.vault.ReadText(ctx, noteID)
	if err != nil {
		return nil, err
	}

	var lines []domain.IngredientLine
	var failed []string
	for _, task := range tasks {
		if !task.Completed {
			continue
		}
		line, err := ParseIngredientLine(task.Description)
		if err != nil {
			if s.enableDebugLogging {
				log.Printf("[RECIPE] %s: skipping task: %v", noteID, err)
			}
			if errors.Is(err, domain.ErrUnresolvedIngredient) && line.IngredientName != "" {
				failed = append(failed, line.IngredientName)
			}
			continue
		}
		lines = append(lines, line)
	}

	totals := AggregateRecipe(ctx, lines, NoteIngredientResolver{Notes: s.vault})
	totals.Failed = append(failed, totals.Failed...)

	if s.enableDebugLogging && len(totals.Failed) > 0 {
		log.Printf("[RECIPE] %s: %d ingredient(s) not counted: %v", noteID, len(totals.Failed), totals.Failed)
	}

	return &RecipeSummary{
		NoteID:   noteID,
		Servings: ParseServingsCount(text),
		Totals:   totals,
	}, nil
}

// RecipeFacts renders the recipe panel for one serving or for the whole recipe.
func (s *RecipeService) RecipeFacts(ctx context.Context, noteID string, perServing bool) (*RecipeFacts, error) {
	summary, err := s.Summarize(ctx, noteID)
	if err != nil {
		return nil, err
	}

	record := summary.Totals.Total
	caption := recipeTotalCaption
	if perServing {
		record = PerServing(record, summary.Servings)
		caption = recipeServingCaption
	}

	return &RecipeFacts{
		RecipeSummary:  *summary,
		PerServing:     perServing,
		Facts:          BuildFacts(record, caption),
		ServingOptions: RecipeFractionOptions(summary.Servings),
	}, nil
}
