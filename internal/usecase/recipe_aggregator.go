package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// Package-level compiled regex patterns for recipe notes
var (
	ingredientLinkRegex    = regexp.MustCompile(`\[\[(.+?)\]\]`)
	ingredientServingRegex = regexp.MustCompile(`(?i)serving::\s*([\w\s./]+)\b`)
	ingredientQtyRegex     = regexp.MustCompile(`(?i)qty::\s*([\d.]+)`)
	recipeServingsRegex    = regexp.MustCompile(`(?i)servings::\s*(\d+)`)
)

// ParseIngredientLine extracts the ingredient name, serving label and quantity from
// the description of a completed recipe task such as
// "(serving:: 1 cup) x(qty:: 2) (item:: [[Rolled Oats|oats]]) [cal:: 300]".
func ParseIngredientLine(description string) (domain.IngredientLine, error) {
	link := ingredientLinkRegex.FindStringSubmatch(description)
	if link == nil {
		return domain.IngredientLine{}, fmt.Errorf("%w: no ingredient link in %q", domain.ErrUnresolvedIngredient, description)
	}

	name := link[1]
	if idx := strings.Index(name, "|"); idx >= 0 {
		name = name[:idx]
	}
	name = strings.TrimSpace(name)

	var label string
	if serving := ingredientServingRegex.FindStringSubmatch(description); serving != nil {
		label = trimServingLabel(serving[1])
	}
	if label == "" {
		return domain.IngredientLine{IngredientName: name}, fmt.Errorf("%w: no serving for %s", domain.ErrUnresolvedIngredient, name)
	}

	quantity := 1.0
	if qty := ingredientQtyRegex.FindStringSubmatch(description); qty != nil {
		if q, err := strconv.ParseFloat(qty[1], 64); err == nil {
			quantity = q
		}
	}

	return domain.IngredientLine{
		IngredientName: name,
		ServingLabel:   label,
		Quantity:       quantity,
	}, nil
}

// trimServingLabel lower-cases a captured serving label and drops the field
// keywords the capture runs into, as in "(serving:: Cup x(qty:: 2))" or
// "serving:: cup qty:: 2"
func trimServingLabel(raw string) string {
	words := strings.Fields(strings.ToLower(raw))
	for len(words) > 0 {
		switch words[len(words)-1] {
		case "x", "qty", "item":
			words = words[:len(words)-1]
			continue
		}
		break
	}
	return strings.Join(words, " ")
}

// ParseServingsCount reads the "servings:: N" marker of a recipe note.
// Absent or non-positive counts yield 1.
func ParseServingsCount(text string) int {
	m := recipeServingsRegex.FindStringSubmatch(text)
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// AggregateRecipe resolves, scales and sums every ingredient line. An ingredient that
// cannot be resolved, or has no serving whose label contains the line's serving label,
// contributes nothing and is listed in Failed.
func AggregateRecipe(ctx context.Context, lines []domain.IngredientLine, resolver domain.IngredientResolver) domain.RecipeTotals {
	var totals domain.RecipeTotals

	for _, line := range lines {
		resolved, err := resolver.ResolveIngredient(ctx, line.IngredientName)
		if err != nil {
			totals.Failed = append(totals.Failed, line.IngredientName)
			continue
		}

		option, ok := MatchServing(resolved.Options, line.ServingLabel)
		if !ok {
			totals.Failed = append(totals.Failed, line.IngredientName)
			continue
		}

		totals.Total = totals.Total.Add(Scale(resolved.Base, GramMultiplier(option.Grams, line.Quantity)))
	}

	return totals
}

// PerServing divides a recipe total by its servings count. A zero or negative count
// yields the zero record.
func PerServing(total domain.NutrientRecord, servingsCount int) domain.NutrientRecord {
	return Scale(total, SafeMultiplier(1, float64(servingsCount)))
}

// ResolverFunc adapts a function to domain.IngredientResolver.
type ResolverFunc func(ctx context.Context, name string) (domain.ResolvedIngredient, error)

// ResolveIngredient calls f.
func (f ResolverFunc) ResolveIngredient(ctx context.Context, name string) (domain.ResolvedIngredient, error) {
	return f(ctx, name)
}
