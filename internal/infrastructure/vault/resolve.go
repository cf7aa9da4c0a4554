package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

const recipeSuffix = ".recipe.md"

// linkTarget reduces a wiki link such as "[[Foods/Oats#Label|oats]]" to "Foods/Oats"
func linkTarget(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "[[")
	name = strings.TrimSuffix(name, "]]")
	if i := strings.Index(name, "|"); i >= 0 {
		name = name[:i]
	}
	if i := strings.Index(name, "#"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// noteName is the display name of a note: its file name without extension
func noteName(noteID string) string {
	return strings.TrimSuffix(path.Base(noteID), ".md")
}

// ResolveNoteID maps a link target to a note ID. A path resolves directly; a bare
// name matches note file names case-insensitively, preferring the food, USDA and
// recipe folders in that order.
func (v *FSVault) ResolveNoteID(ctx context.Context, name string) (string, error) {
	target := linkTarget(name)
	if target == "" {
		return "", fmt.Errorf("%w: empty note name", domain.ErrInvalidRequest)
	}

	candidate := target
	if !strings.HasSuffix(strings.ToLower(candidate), ".md") {
		candidate += ".md"
	}
	if strings.Contains(target, "/") {
		file, err := v.abs(candidate)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(file); err == nil {
			return path.Clean(strings.TrimPrefix(candidate, "/")), nil
		}
	}

	index, err := v.nameIndex(ctx)
	if err != nil {
		return "", err
	}
	matches := index[strings.ToLower(noteName(candidate))]
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrNoteNotFound, target)
	}

	for _, folder := range v.preferredFolders() {
		for _, id := range matches {
			if inFolder(id, folder) {
				return id, nil
			}
		}
	}
	return matches[0], nil
}

// ListFoods lists the notes of the food, USDA and recipe folders
func (v *FSVault) ListFoods(ctx context.Context) ([]domain.FoodItem, error) {
	key := indexCachePrefix + "foods"
	if cached, err := v.cache.Get(ctx, key); err == nil {
		if items, ok := cached.([]domain.FoodItem); ok {
			return items, nil
		}
	}

	seen := make(map[string]bool)
	var items []domain.FoodItem
	for _, folder := range v.preferredFolders() {
		ids, err := v.glob(folder + "/**/*.md")
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			items = append(items, domain.FoodItem{
				Name:   strings.TrimSuffix(noteName(id), ".recipe"),
				NoteID: id,
				Recipe: v.isRecipe(id),
			})
		}
	}

	if err := v.cache.Set(ctx, key, items, v.cfg.CacheTTL); err != nil {
		v.debugLog("cache set %s: %v", key, err)
	}
	return items, nil
}

func (v *FSVault) isRecipe(noteID string) bool {
	return strings.HasSuffix(strings.ToLower(noteID), recipeSuffix) ||
		(v.cfg.RecipesFolder != "" && inFolder(noteID, v.cfg.RecipesFolder))
}

// nameIndex maps lower-cased note names to every note ID carrying that name
func (v *FSVault) nameIndex(ctx context.Context) (map[string][]string, error) {
	key := indexCachePrefix + "names"
	if cached, err := v.cache.Get(ctx, key); err == nil {
		if index, ok := cached.(map[string][]string); ok {
			return index, nil
		}
	}

	ids, err := v.glob("**/*.md")
	if err != nil {
		return nil, err
	}
	index := make(map[string][]string, len(ids))
	for _, id := range ids {
		name := strings.ToLower(noteName(id))
		index[name] = append(index[name], id)
	}

	if err := v.cache.Set(ctx, key, index, v.cfg.CacheTTL); err != nil {
		v.debugLog("cache set %s: %v", key, err)
	}
	return index, nil
}

// glob returns the sorted note IDs matching pattern, minus excluded folders and
// temp files
func (v *FSVault) glob(pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(v.root), pattern)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list notes %q: %w", pattern, err)
	}

	ids := matches[:0]
	for _, id := range matches {
		if v.excluded(id) || strings.HasPrefix(path.Base(id), tempFilePrefix) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// excluded reports whether noteID sits under an excluded folder. Entries may be
// plain folder names or doublestar patterns.
func (v *FSVault) excluded(noteID string) bool {
	for _, folder := range v.cfg.ExcludedFolders {
		folder = strings.Trim(folder, "/")
		if folder == "" {
			continue
		}
		if inFolder(noteID, folder) {
			return true
		}
		if ok, err := doublestar.Match(folder, path.Dir(noteID)); err == nil && ok {
			return true
		}
	}
	return false
}

func (v *FSVault) preferredFolders() []string {
	var folders []string
	for _, f := range []string{v.cfg.FoodFolder, v.cfg.USDAFolder, v.cfg.RecipesFolder} {
		if f = strings.Trim(f, "/"); f != "" {
			folders = append(folders, f)
		}
	}
	return folders
}

func inFolder(noteID, folder string) bool {
	folder = strings.Trim(folder, "/")
	return strings.HasPrefix(strings.ToLower(noteID), strings.ToLower(folder)+"/")
}
