package usecase

import (
	"context"
	"log"
	"time"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// SummaryVault is what the summary service reads
type SummaryVault interface {
	domain.TaskAccessor
	domain.JournalLocator
}

// SummaryServiceConfig holds configuration for the summary service
type SummaryServiceConfig struct {
	Meals              []domain.Meal
	EnableDebugLogging bool
}

// SummaryService builds per-meal macro summaries of journal days
type SummaryService struct {
	vault              SummaryVault
	meals              []domain.Meal
	enableDebugLogging bool
}

// DaySummary is the macro table of one journal day
type DaySummary struct {
	Date     string               `json:"date"`
	NoteID   string               `json:"noteId"`
	Rows     []domain.MealSummary `json:"rows"`
	Skipped  int                  `json:"skipped"`
	Markdown string               `json:"markdown"`
}

// NewSummaryService creates a new summary service
func NewSummaryService(vault SummaryVault, config SummaryServiceConfig) *SummaryService {
	return &SummaryService{
		vault:              vault,
		meals:              config.Meals,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Meals returns the configured meal slots
func (s *SummaryService) Meals() []domain.Meal {
	return s.meals
}

// DaySummary reads the journal note of date and sums its completed diary lines per
// meal. Lines without a meal field are skipped and counted.
func (s *SummaryService) DaySummary(ctx context.Context, date time.Time) (*DaySummary, error) {
	if date.IsZero() {
		return nil, domain.ErrInvalidRequest
	}

	noteID := s.vault.JournalNoteID(date)
	tasks, err := s.vault.Tasks(ctx, noteID)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.DiaryLine, 0, len(tasks))
	skipped := 0
	for _, task := range tasks {
		line, err := ExtractLine(task.Description)
		if err != nil {
			skipped++
			continue
		}
		line.Completed = task.Completed
		lines = append(lines, line)
	}

	rows := SummarizeMeals(lines, s.meals)

	if s.enableDebugLogging {
		log.Printf("[SUMMARY] %s: %d lines, %d skipped, %d rows", noteID, len(lines), skipped, len(rows))
	}

	return &DaySummary{
		Date:     date.Format("2006-01-02"),
		NoteID:   noteID,
		Rows:     rows,
		Skipped:  skipped,
		Markdown: SummaryMarkdown(rows),
	}, nil
}
