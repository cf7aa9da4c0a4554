package usecase

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// servingSeparator splits a serving label from its gram weight.
const servingSeparator = " | "

// DefaultServing is used when a food note defines no valid serving.
var DefaultServing = domain.ServingOption{Label: "Default", Grams: 100}

// recipeFractionRegex matches "<n>/<d> of Recipe".
var recipeFractionRegex = regexp.MustCompile(`(?i)^\s*(\d+)\s*/\s*(\d+)\s+of\s+recipe\s*$`)

// ParseServing parses a "<label> | <grams>g" descriptor.
func ParseServing(raw string) (domain.ServingOption, error) {
	if strings.Count(raw, servingSeparator) != 1 {
		return domain.ServingOption{}, fmt.Errorf("%w: %q has no single %q separator", domain.ErrMalformedServing, raw, servingSeparator)
	}

	parts := strings.SplitN(raw, servingSeparator, 2)
	label := strings.TrimSpace(parts[0])
	weight := strings.TrimSpace(parts[1])

	if !strings.HasSuffix(weight, "g") {
		return domain.ServingOption{}, fmt.Errorf("%w: %q weight must end in g", domain.ErrMalformedServing, raw)
	}

	grams, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(weight, "g")), 64)
	if err != nil || math.IsNaN(grams) || math.IsInf(grams, 0) || grams < 0 {
		return domain.ServingOption{}, fmt.Errorf("%w: %q weight is not a non-negative number", domain.ErrMalformedServing, raw)
	}

	return domain.ServingOption{Label: label, Grams: grams}, nil
}

// ParseServingList parses every descriptor, drops the malformed ones and falls back
// to a single 100 g default when nothing valid remains. Input order is kept.
func ParseServingList(raw []string) []domain.ServingOption {
	options := make([]domain.ServingOption, 0, len(raw))
	for _, r := range raw {
		option, err := ParseServing(r)
		if err != nil {
			continue
		}
		options = append(options, option)
	}

	if len(options) == 0 {
		return []domain.ServingOption{DefaultServing}
	}
	return options
}

// ParseRecipeFraction parses a "<n>/<d> of Recipe" serving.
func ParseRecipeFraction(raw string) (domain.RecipeFractionServing, error) {
	m := recipeFractionRegex.FindStringSubmatch(raw)
	if m == nil {
		return domain.RecipeFractionServing{}, fmt.Errorf("%w: %q is not a recipe fraction", domain.ErrMalformedServing, raw)
	}

	num, errNum := strconv.Atoi(m[1])
	den, errDen := strconv.Atoi(m[2])
	if errNum != nil || errDen != nil {
		return domain.RecipeFractionServing{}, fmt.Errorf("%w: %q fraction out of range", domain.ErrMalformedServing, raw)
	}

	return domain.RecipeFractionServing{Numerator: num, Denominator: den}, nil
}

// IsRecipeFraction reports whether raw uses the recipe-fraction grammar.
func IsRecipeFraction(raw string) bool {
	return recipeFractionRegex.MatchString(raw)
}

// RecipeFractionOptions returns the serving choices offered for a recipe note.
func RecipeFractionOptions(servings int) []string {
	if servings <= 0 {
		servings = 1
	}
	return []string{fmt.Sprintf("1/%d of Recipe", servings)}
}

// ServingsFromFrontmatter reads the servings field of a food note. The field may be
// a YAML list of strings, a single string, or absent.
func ServingsFromFrontmatter(value any) []domain.ServingOption {
	var raw []string

	switch v := value.(type) {
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case string:
		raw = []string{v}
	}

	return ParseServingList(raw)
}

// FindServing returns the option whose label equals label, ignoring case.
func FindServing(options []domain.ServingOption, label string) (domain.ServingOption, bool) {
	for _, option := range options {
		if strings.EqualFold(option.Label, strings.TrimSpace(label)) {
			return option, true
		}
	}
	return domain.ServingOption{}, false
}

// MatchServing returns the first option whose label contains label, ignoring case.
func MatchServing(options []domain.ServingOption, label string) (domain.ServingOption, bool) {
	needle := strings.ToLower(strings.TrimSpace(label))
	if needle == "" {
		return domain.ServingOption{}, false
	}
	for _, option := range options {
		if strings.Contains(strings.ToLower(option.Label), needle) {
			return option, true
		}
	}
	return domain.ServingOption{}, false
}

// FormatServing renders an option back into its descriptor form.
func FormatServing(option domain.ServingOption) string {
	return option.Label + servingSeparator + formatNumber(option.Grams) + "g"
}
