package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// Package-level compiled regex patterns for diary line fields
var (
	diaryMealRegex    = regexp.MustCompile(`(?i)\bmeal::\s*([^,\)\]]+)`)
	diaryCalRegex     = regexp.MustCompile(`\bcal::\s*(\d+(?:\.\d+)?)`)
	diaryFatRegex     = regexp.MustCompile(`\bfat::\s*(\d+(?:\.\d+)?)`)
	diaryCarbsRegex   = regexp.MustCompile(`\bcarbs::\s*(\d+(?:\.\d+)?)`)
	diaryProteinRegex = regexp.MustCompile(`\bprotein::\s*(\d+(?:\.\d+)?)`)
)

const (
	manualServingText  = "Manual Entry"
	defaultServingText = "1 serving"
	nestedLinePrefix   = "> "
)

// FormatOptions controls the diary line layout.
type FormatOptions struct {
	// Prefix is the single-character task marker, e.g. "c" renders "- [c]".
	Prefix string
	// Nest prefixes journal lines with "> " so they render inside a callout.
	Nest bool
}

// FormatEntry renders a diary entry as one checklist line. Entries logged into a
// recipe ("Recipe" meal, not manual) use the ingredient grammar; everything else uses
// the journal grammar.
func FormatEntry(entry domain.DiaryEntry, opts FormatOptions) string {
	macros := fmt.Sprintf("[cal:: %s], [fat:: %s], [carbs:: %s], [protein:: %s]",
		formatNumber(entry.Nutrients.Calories),
		formatNumber(entry.Nutrients.Fat),
		formatNumber(entry.Nutrients.Carbohydrates),
		formatNumber(entry.Nutrients.Protein),
	)

	qty := quantitySuffix(entry)
	serving := servingText(entry)

	if entry.Meal == domain.RecipeMeal && !entry.Manual {
		return fmt.Sprintf("- [%s] (serving:: %s%s) (item:: [[%s]]) %s",
			opts.Prefix, serving, qty, entry.FoodLabel, macros)
	}

	var b strings.Builder
	if opts.Nest {
		b.WriteString(nestedLinePrefix)
	}
	fmt.Fprintf(&b, "- [%s] (time:: %s) (meal:: %s) ", opts.Prefix, entry.Time, entry.Meal)
	if entry.Manual {
		fmt.Fprintf(&b, "(item:: %s)", entry.FoodLabel)
	} else {
		fmt.Fprintf(&b, "(item:: [[%s]]) (%s%s)", entry.FoodLabel, serving, qty)
	}
	b.WriteString(" " + macros)

	return b.String()
}

// ExtractLine recovers the meal and headline macros from a diary line. Missing
// numeric fields read as 0; a line without a meal field is rejected.
func ExtractLine(line string) (domain.DiaryLine, error) {
	m := diaryMealRegex.FindStringSubmatch(line)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return domain.DiaryLine{}, fmt.Errorf("%w: %q", domain.ErrUnparsableDiaryLine, line)
	}

	return domain.DiaryLine{
		Meal:     strings.TrimSpace(m[1]),
		Calories: captureNumber(diaryCalRegex, line),
		Fat:      captureNumber(diaryFatRegex, line),
		Carbs:    captureNumber(diaryCarbsRegex, line),
		Protein:  captureNumber(diaryProteinRegex, line),
	}, nil
}

func captureNumber(re *regexp.Regexp, line string) float64 {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}

// quantitySuffix is " x(qty:: n)" for automatic entries eaten other than once.
func quantitySuffix(entry domain.DiaryEntry) string {
	if entry.Manual || entry.Quantity == 0 || entry.Quantity == 1 {
		return ""
	}
	return fmt.Sprintf(" x(qty:: %s)", formatNumber(entry.Quantity))
}

// servingText is the serving label without its gram weight.
func servingText(entry domain.DiaryEntry) string {
	if entry.Manual {
		return manualServingText
	}
	label := strings.TrimSpace(strings.SplitN(entry.Serving, servingSeparator, 2)[0])
	if label == "" {
		return defaultServingText
	}
	return label
}
