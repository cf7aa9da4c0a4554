package domain

import "errors"

var (
	// ErrMalformedServing is returned when a serving string matches neither
	// the "label | Ng" nor the "n/d of Recipe" grammar
	ErrMalformedServing = errors.New("malformed serving")

	// ErrUnresolvedIngredient is returned when an ingredient note or its serving cannot be found
	ErrUnresolvedIngredient = errors.New("unresolved ingredient")

	// ErrUnparsableDiaryLine is returned when a diary line carries no meal:: field
	ErrUnparsableDiaryLine = errors.New("unparsable diary line")

	// ErrNoData is returned when a note exists but has no frontmatter at all
	ErrNoData = errors.New("no nutrition data")

	// ErrNoteNotFound is returned when a note does not exist in the vault
	ErrNoteNotFound = errors.New("note not found")

	// ErrNoteExists is returned when creating a note that already exists
	ErrNoteExists = errors.New("note already exists")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrProductNotFound is returned when a food cannot be found in USDA database
	ErrProductNotFound = errors.New("product not found in USDA database")

	// ErrUSDAAPIFailure is returned when USDA API request fails
	ErrUSDAAPIFailure = errors.New("USDA API request failed")

	// ErrLowConfidence is returned when the best USDA match scores below the threshold
	ErrLowConfidence = errors.New("match confidence below threshold")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
