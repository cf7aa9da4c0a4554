package domain

import (
	"context"
	"time"
)

// MetadataAccessor reads the frontmatter of a note
type MetadataAccessor interface {
	Frontmatter(ctx context.Context, noteID string) (map[string]any, error)
}

// TaskAccessor enumerates the checklist lines of a note
type TaskAccessor interface {
	Tasks(ctx context.Context, noteID string) ([]Task, error)
}

// TextAccessor reads note text and appends lines to it
type TextAccessor interface {
	ReadText(ctx context.Context, noteID string) (string, error)
	AppendLine(ctx context.Context, noteID, line string) error
}

// IngredientResolver resolves an ingredient display name to its serving options and
// 100 g base nutrients
type IngredientResolver interface {
	ResolveIngredient(ctx context.Context, name string) (ResolvedIngredient, error)
}

// NoteResolver maps a link target such as "Rolled Oats" to a note ID
type NoteResolver interface {
	ResolveNoteID(ctx context.Context, name string) (string, error)
}

// NoteWriter creates new notes
type NoteWriter interface {
	CreateNote(ctx context.Context, noteID string, content []byte) error
	WriteFoodNote(ctx context.Context, folder string, note FoodNote) (string, error)
}

// NoteLister lists the food items available for logging
type NoteLister interface {
	ListFoods(ctx context.Context) ([]FoodItem, error)
}

// JournalLocator maps a calendar date to its journal note
type JournalLocator interface {
	JournalNoteID(date time.Time) string
}

// Vault is the full set of note capabilities the services need
type Vault interface {
	MetadataAccessor
	TaskAccessor
	TextAccessor
	NoteResolver
	NoteWriter
	NoteLister
	JournalLocator
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// USDAClient defines the interface for interacting with USDA FoodData Central API
type USDAClient interface {
	SearchFoods(ctx context.Context, query string) (*USDASearchResponse, error)
	GetFoodDetails(ctx context.Context, fdcID int) (*USDAFood, error)
}
