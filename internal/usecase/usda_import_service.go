package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
	"github.com/jpfieber/jots-food-tracker/internal/infrastructure/usda"
)

var cacheKeyCleanRegex = regexp.MustCompile(`[^a-z0-9]+`)

// USDAImportServiceConfig holds configuration for the USDA import service
type USDAImportServiceConfig struct {
	USDAFolder             string
	CacheTTL               time.Duration
	MinConfidenceThreshold float64
	EnableFuzzyMatching    bool
	EnableDebugLogging     bool
}

// USDAImportService creates food notes from USDA FoodData Central
type USDAImportService struct {
	cache              domain.CacheRepository
	usdaClient         domain.USDAClient
	writer             domain.NoteWriter
	matcher            *MatchingService
	folder             string
	cacheTTL           time.Duration
	enableDebugLogging bool
}

// ImportRequest selects a USDA food by search query or by FDC ID
type ImportRequest struct {
	Query string `json:"query,omitempty"`
	FdcID int    `json:"fdcId,omitempty"`
	// Force imports the best match even when its score is under the threshold
	Force bool `json:"force,omitempty"`
}

// ImportResult reports the note written for an import
type ImportResult struct {
	NoteID string              `json:"noteId"`
	Note   domain.FoodNote     `json:"note"`
	Match  *domain.MatchResult `json:"match,omitempty"`
}

// NewUSDAImportService creates a new import service with dependencies
func NewUSDAImportService(
	cache domain.CacheRepository,
	usdaClient domain.USDAClient,
	writer domain.NoteWriter,
	config USDAImportServiceConfig,
) *USDAImportService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &USDAImportService{
		cache:      cache,
		usdaClient: usdaClient,
		writer:     writer,
		matcher: NewMatchingService(MatchConfig{
			MinConfidenceThreshold: config.MinConfidenceThreshold,
			EnableFuzzyMatching:    config.EnableFuzzyMatching,
			EnableDebugLogging:     config.EnableDebugLogging,
		}),
		folder:             config.USDAFolder,
		cacheTTL:           cacheTTL,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Candidates searches USDA and returns the results ranked against the query
func (s *USDAImportService) Candidates(ctx context.Context, query string) ([]domain.MatchResult, error) {
	query = CleanQuery(query)
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}

	resp, err := s.search(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.matcher.RankMatches(query, resp.Foods), nil
}

// Import resolves the requested food and writes it as a note in the USDA folder.
// Flow: cache -> USDA search -> best match -> food details -> note.
func (s *USDAImportService) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	var match *domain.MatchResult
	fdcID := req.FdcID

	if fdcID <= 0 {
		query := CleanQuery(req.Query)
		if query == "" {
			return nil, domain.ErrInvalidRequest
		}

		resp, err := s.search(ctx, query)
		if err != nil {
			return nil, err
		}

		match, err = s.matcher.FindBestMatch(ctx, query, resp.Foods)
		if err != nil {
			if !errors.Is(err, domain.ErrLowConfidence) || !req.Force {
				return &ImportResult{Match: match}, err
			}
			log.Printf("[IMPORT] importing low-confidence match %q (%.1f) for %q", match.Description, match.MatchScore, query)
		}
		fdcID = match.FdcID
	}

	food, err := s.details(ctx, fdcID)
	if err != nil {
		return nil, err
	}

	note := usda.MapToFoodNote(food)
	noteID, err := s.writer.WriteFoodNote(ctx, s.folder, note)
	if err != nil {
		return &ImportResult{Note: note, Match: match}, err
	}

	if s.enableDebugLogging {
		log.Printf("[IMPORT] fdcId=%d -> %s", fdcID, noteID)
	}

	return &ImportResult{NoteID: noteID, Note: note, Match: match}, nil
}

func (s *USDAImportService) search(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	key := "usda:search:" + normalizeForCacheKey(query)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		if resp, ok := cached.(*domain.USDASearchResponse); ok {
			return resp, nil
		}
	}

	resp, err := s.usdaClient.SearchFoods(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err)
	}

	if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
		log.Printf("[IMPORT] cache set %s: %v", key, err)
	}
	return resp, nil
}

func (s *USDAImportService) details(ctx context.Context, fdcID int) (*domain.USDAFood, error) {
	key := fmt.Sprintf("usda:food:%d", fdcID)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		if food, ok := cached.(*domain.USDAFood); ok {
			return food, nil
		}
	}

	food, err := s.usdaClient.GetFoodDetails(ctx, fdcID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err)
	}

	if err := s.cache.Set(ctx, key, food, s.cacheTTL); err != nil {
		log.Printf("[IMPORT] cache set %s: %v", key, err)
	}
	return food, nil
}

// normalizeForCacheKey lowercases s and collapses everything but letters and
// digits to single dashes
func normalizeForCacheKey(s string) string {
	return strings.Trim(cacheKeyCleanRegex.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
