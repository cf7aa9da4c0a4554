package usecase

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	// MaxResults caps the result list; zero means no cap
	MaxResults         int
	EnableDebugLogging bool
}

// SearchService finds loggable foods by name
type SearchService struct {
	lister             domain.NoteLister
	maxResults         int
	enableDebugLogging bool
}

// NewSearchService creates a new search service
func NewSearchService(lister domain.NoteLister, config SearchServiceConfig) *SearchService {
	return &SearchService{
		lister:             lister,
		maxResults:         config.MaxResults,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// SearchFoods returns the food, USDA and recipe notes whose name contains query,
// ignoring case, sorted by name. An empty query lists everything.
func (s *SearchService) SearchFoods(ctx context.Context, query string) ([]domain.FoodItem, error) {
	items, err := s.lister.ListFoods(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	matches := make([]domain.FoodItem, 0, len(items))
	for _, item := range items {
		if needle == "" || strings.Contains(strings.ToLower(item.Name), needle) {
			matches = append(matches, item)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := strings.ToLower(matches[i].Name), strings.ToLower(matches[j].Name)
		if a != b {
			return a < b
		}
		return matches[i].NoteID < matches[j].NoteID
	})

	if s.maxResults > 0 && len(matches) > s.maxResults {
		matches = matches[:s.maxResults]
	}

	if s.enableDebugLogging {
		log.Printf("[SEARCH] %q: %d of %d notes", query, len(matches), len(items))
	}
	return matches, nil
}
