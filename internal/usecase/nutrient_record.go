package usecase

import (
	"strconv"
	"strings"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// NutrientsFromFrontmatter builds a per-100 g record from a food note's frontmatter.
// Missing, non-numeric and negative fields read as 0.
func NutrientsFromFrontmatter(fm map[string]any) domain.NutrientRecord {
	var record domain.NutrientRecord
	for _, key := range domain.NutrientKeys {
		record = record.With(key, toFloat(lookupKey(fm, key)))
	}
	return record
}

// lookupKey finds key in fm, falling back to a case-insensitive match.
func lookupKey(fm map[string]any, key string) any {
	if v, ok := fm[key]; ok {
		return v
	}
	for k, v := range fm {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// formatNumber prints v in its shortest decimal form: 150, 2.5, 0.1.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
