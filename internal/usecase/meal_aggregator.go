package usecase

import (
	"strings"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// summaryHeaders are the columns of the day summary table.
var summaryHeaders = []string{"Meal", "Calories", "Fat", "Carbs", "Protein"}

// SummarizeMeals groups completed diary lines by meal, in the order of meals, and
// appends a Total row. A line belongs to a meal when its meal field equals the meal
// name ignoring case, or equals the meal's emoji exactly. When no line matches any
// meal the result is empty.
func SummarizeMeals(lines []domain.DiaryLine, meals []domain.Meal) []domain.MealSummary {
	var rows []domain.MealSummary
	matched := 0

	for _, meal := range meals {
		row := domain.MealSummary{MealName: meal.Name}
		count := 0

		for _, line := range lines {
			if !line.Completed || !mealMatches(line.Meal, meal) {
				continue
			}
			row.Calories += line.Calories
			row.Fat += line.Fat
			row.Carbs += line.Carbs
			row.Protein += line.Protein
			count++
		}

		if count == 0 {
			continue
		}
		matched += count
		rows = append(rows, roundSummary(row))
	}

	if matched == 0 {
		return nil
	}

	total := domain.MealSummary{MealName: domain.TotalRowName}
	for _, row := range rows {
		total.Calories += row.Calories
		total.Fat += row.Fat
		total.Carbs += row.Carbs
		total.Protein += row.Protein
	}

	return append(rows, roundSummary(total))
}

func mealMatches(value string, meal domain.Meal) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if strings.EqualFold(value, meal.Name) {
		return true
	}
	return meal.Emoji != "" && value == meal.Emoji
}

func roundSummary(row domain.MealSummary) domain.MealSummary {
	row.Calories = RoundTo(row.Calories, 1)
	row.Fat = RoundTo(row.Fat, 1)
	row.Carbs = RoundTo(row.Carbs, 1)
	row.Protein = RoundTo(row.Protein, 1)
	return row
}

// SummaryMarkdown renders summary rows as a Markdown table with the meal names and
// the Total row in bold. Empty input renders as the empty string.
func SummaryMarkdown(rows []domain.MealSummary) string {
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("| " + strings.Join(summaryHeaders, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(summaryHeaders)) + "\n")

	for _, row := range rows {
		cells := []string{
			formatNumber(row.Calories),
			formatNumber(row.Fat),
			formatNumber(row.Carbs),
			formatNumber(row.Protein),
		}
		if row.MealName == domain.TotalRowName {
			for i := range cells {
				cells[i] = bold(cells[i])
			}
		}
		b.WriteString("| " + bold(row.MealName) + " | " + strings.Join(cells, " | ") + " |\n")
	}

	return b.String()
}

func bold(s string) string {
	return "**" + s + "**"
}
