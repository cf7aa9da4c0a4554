package usecase

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

var (
	punctuationRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	quantityRegex    = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:g|grams?|kg|oz|ounces?|lbs?|ml|l|cups?|tbsp|tsp)\b`)
)

// Scoring weights. Query coverage dominates; the rest breaks ties between
// candidates that all contain the query words.
const (
	weightQueryCoverage = 60.0
	weightDescCoverage  = 25.0
	leadingTokenBonus   = 10.0
	fuzzyCredit         = 0.8
)

// dataTypeBonus prefers the curated generic datasets over branded products
var dataTypeBonus = map[string]float64{
	"Foundation":     5,
	"SR Legacy":      4,
	"Survey (FNDDS)": 2,
	"Branded":        0,
}

// stopWords carry no meaning when matching food names
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"with": true, "without": true, "in": true, "for": true, "from": true,
	"ns": true, "nfs": true, "as": true, "to": true, "form": true,
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	MinConfidenceThreshold float64
	EnableFuzzyMatching    bool
	FuzzyEditDistance      int
	EnableDebugLogging     bool
}

// MatchingService scores USDA candidates against a food name
type MatchingService struct {
	minConfidenceThreshold float64
	enableFuzzyMatching    bool
	fuzzyEditDistance      int
	enableDebugLogging     bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	threshold := config.MinConfidenceThreshold
	if threshold <= 0 {
		threshold = 40.0
	}

	fuzzyDist := config.FuzzyEditDistance
	if fuzzyDist <= 0 {
		fuzzyDist = 1
	}

	return &MatchingService{
		minConfidenceThreshold: threshold,
		enableFuzzyMatching:    config.EnableFuzzyMatching,
		fuzzyEditDistance:      fuzzyDist,
		enableDebugLogging:     config.EnableDebugLogging,
	}
}

// CleanQuery strips quantities and punctuation from a food name before searching
func CleanQuery(query string) string {
	query = quantityRegex.ReplaceAllString(query, " ")
	query = strings.ReplaceAll(query, "&", " and ")
	return strings.Join(strings.Fields(punctuationRegex.ReplaceAllString(query, " ")), " ")
}

// FindBestMatch returns the highest scoring candidate. Ties keep the earlier
// candidate, so the USDA relevance order breaks them. A best match under the
// threshold is returned together with ErrLowConfidence.
func (s *MatchingService) FindBestMatch(ctx context.Context, query string, foods []domain.USDAFood) (*domain.MatchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidRequest
	}
	if len(foods) == 0 {
		return nil, domain.ErrProductNotFound
	}

	var best *domain.MatchResult
	for _, food := range foods {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		score, matched := s.score(query, food.Description, food.DataType)
		if s.enableDebugLogging {
			log.Printf("[MATCH] %q | %s | %.1f | %v", food.Description, food.DataType, score, matched)
		}

		if best == nil || score > best.MatchScore {
			best = &domain.MatchResult{
				FdcID:         food.FdcID,
				Description:   food.Description,
				MatchScore:    score,
				MatchedTokens: matched,
			}
		}
	}

	if s.enableDebugLogging {
		log.Printf("[MATCH] best for %q: %q (%.1f)", query, best.Description, best.MatchScore)
	}

	if best.MatchScore < s.minConfidenceThreshold {
		return best, domain.ErrLowConfidence
	}
	return best, nil
}

// RankMatches scores every candidate and returns them best first
func (s *MatchingService) RankMatches(query string, foods []domain.USDAFood) []domain.MatchResult {
	results := make([]domain.MatchResult, 0, len(foods))
	for _, food := range foods {
		score, matched := s.score(query, food.Description, food.DataType)
		results = append(results, domain.MatchResult{
			FdcID:         food.FdcID,
			Description:   food.Description,
			MatchScore:    score,
			MatchedTokens: matched,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	return results
}

// score rates a USDA description against the query on a 0-100 scale
func (s *MatchingService) score(query, description, dataType string) (float64, []string) {
	queryTokens := tokenize(CleanQuery(query))
	descTokens := tokenize(description)
	if len(queryTokens) == 0 || len(descTokens) == 0 {
		return 0, nil
	}

	var credit float64
	var matched []string
	for _, qt := range queryTokens {
		c := s.tokenCredit(qt, descTokens)
		if c > 0 {
			credit += c
			matched = append(matched, qt)
		}
	}

	queryCoverage := credit / float64(len(queryTokens))
	descCoverage := float64(len(matched)) / float64(len(descTokens))
	if descCoverage > 1 {
		descCoverage = 1
	}

	score := queryCoverage*weightQueryCoverage + descCoverage*weightDescCoverage
	if len(matched) > 0 && s.tokenCredit(descTokens[0], queryTokens) > 0 {
		score += leadingTokenBonus
	}
	score += dataTypeBonus[dataType]

	if score > 100 {
		score = 100
	}
	return score, matched
}

// tokenCredit is 1 for an exact or plural match, fuzzyCredit for a near miss
func (s *MatchingService) tokenCredit(token string, candidates []string) float64 {
	best := 0.0
	for _, c := range candidates {
		switch {
		case c == token || singular(c) == singular(token):
			return 1
		case s.enableFuzzyMatching && fuzzyTokenMatch(token, c, s.fuzzyEditDistance):
			best = fuzzyCredit
		}
	}
	return best
}

// tokenize lowercases s and drops punctuation, stop words, one-letter and numeric tokens
func tokenize(s string) []string {
	words := strings.Fields(punctuationRegex.ReplaceAllString(strings.ToLower(s), " "))

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) <= 1 || stopWords[w] || isNumeric(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

func singular(w string) string {
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "oes") && len(w) > 4:
		return w[:len(w)-2]
	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && len(w) > 3:
		return w[:len(w)-1]
	}
	return w
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// fuzzyTokenMatch reports whether two tokens of four or more letters are within
// threshold edits of each other
func fuzzyTokenMatch(a, b string, threshold int) bool {
	if a == b {
		return true
	}
	if len(a) < 4 || len(b) < 4 {
		return false
	}
	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	if diff > threshold {
		return false
	}
	return levenshteinDistance(a, b) <= threshold
}

func levenshteinDistance(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}
