package vault

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

const (
	noteCachePrefix  = "note:"
	indexCachePrefix = "index:"
	tempFilePrefix   = ".foodtracker-tmp-"
)

// taskRegex matches a checklist line, optionally nested in callouts or quotes:
// "- [c] text", "> - [x] text", "  * [ ] text"
var taskRegex = regexp.MustCompile(`^(?:\s*>)*\s*[-*+]\s+\[(.)\]\s+(.*)$`)

// Config describes the vault layout
type Config struct {
	Root            string
	FoodFolder      string
	USDAFolder      string
	RecipesFolder   string
	ExcludedFolders []string
	// TaskPrefix is the marker of a completed task, e.g. "c" for "- [c]"
	TaskPrefix string
	Journal    JournalLayout
	CacheTTL   time.Duration
	Debug      bool
}

// parsedNote is the cached, read-only view of one note
type parsedNote struct {
	Frontmatter map[string]any
	Body        string
	Text        string
	Tasks       []domain.Task
}

// FSVault implements domain.Vault over a directory of Markdown notes. Note IDs are
// slash-separated paths relative to the root, including the ".md" extension.
type FSVault struct {
	cfg   Config
	root  string
	cache domain.CacheRepository

	// writeMu serializes writes so appends to one note never interleave
	writeMu sync.Mutex
}

// New opens the vault rooted at cfg.Root
func New(cfg Config, cache domain.CacheRepository) (*FSVault, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve vault root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open vault: %s is not a directory", root)
	}
	if cfg.TaskPrefix == "" {
		cfg.TaskPrefix = "c"
	}

	return &FSVault{cfg: cfg, root: root, cache: cache}, nil
}

// Root returns the absolute vault directory
func (v *FSVault) Root() string {
	return v.root
}

func (v *FSVault) debugLog(format string, args ...any) {
	if v.cfg.Debug {
		log.Printf("[VAULT] "+format, args...)
	}
}

// abs maps a note ID to a file path, refusing IDs that escape the root
func (v *FSVault) abs(noteID string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(noteID))
	if clean == "/" {
		return "", fmt.Errorf("%w: empty note id", domain.ErrInvalidRequest)
	}
	return filepath.Join(v.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// noteID maps a file path inside the root back to its note ID
func (v *FSVault) noteID(file string) (string, error) {
	rel, err := filepath.Rel(v.root, file)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the vault", file)
	}
	return filepath.ToSlash(rel), nil
}

// load reads and parses a note, going through the cache
func (v *FSVault) load(ctx context.Context, noteID string) (*parsedNote, error) {
	key := noteCachePrefix + noteID
	if cached, err := v.cache.Get(ctx, key); err == nil {
		if note, ok := cached.(*parsedNote); ok {
			return note, nil
		}
	}

	file, err := v.abs(noteID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoteNotFound, noteID)
		}
		return nil, fmt.Errorf("read %s: %w", noteID, err)
	}

	note := v.parse(noteID, data)
	if err := v.cache.Set(ctx, key, note, v.cfg.CacheTTL); err != nil {
		v.debugLog("cache set %s: %v", key, err)
	}
	return note, nil
}

// parse splits frontmatter from the body. A note whose frontmatter does not
// parse is treated as having none.
func (v *FSVault) parse(noteID string, data []byte) *parsedNote {
	note := &parsedNote{Text: string(data), Body: string(data)}

	fm := make(map[string]any)
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		v.debugLog("%s: frontmatter: %v", noteID, err)
	} else {
		note.Body = string(body)
		if len(fm) > 0 {
			note.Frontmatter = fm
		}
	}

	note.Tasks = parseTasks(note.Body, v.cfg.TaskPrefix)
	return note
}

// parseTasks collects the checklist lines of a body. A task is completed when its
// marker equals prefix.
func parseTasks(body, prefix string) []domain.Task {
	var tasks []domain.Task
	for _, line := range strings.Split(body, "\n") {
		m := taskRegex.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		tasks = append(tasks, domain.Task{
			Description: strings.TrimSpace(m[2]),
			Symbol:      m[1],
			Completed:   m[1] == prefix,
		})
	}
	return tasks
}

// Frontmatter implements domain.MetadataAccessor
func (v *FSVault) Frontmatter(ctx context.Context, noteID string) (map[string]any, error) {
	note, err := v.load(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.Frontmatter == nil {
		return nil, fmt.Errorf("%w: %s has no frontmatter", domain.ErrNoData, noteID)
	}
	return note.Frontmatter, nil
}

// Tasks implements domain.TaskAccessor
func (v *FSVault) Tasks(ctx context.Context, noteID string) ([]domain.Task, error) {
	note, err := v.load(ctx, noteID)
	if err != nil {
		return nil, err
	}
	return note.Tasks, nil
}

// ReadText implements domain.TextAccessor
func (v *FSVault) ReadText(ctx context.Context, noteID string) (string, error) {
	note, err := v.load(ctx, noteID)
	if err != nil {
		return "", err
	}
	return note.Text, nil
}

// AppendLine adds line at the end of an existing note, on a line of its own
func (v *FSVault) AppendLine(ctx context.Context, noteID, line string) error {
	file, err := v.abs(noteID)
	if err != nil {
		return err
	}

	v.writeMu.Lock()
	defer v.writeMu.Unlock()

	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrNoteNotFound, noteID)
		}
		return fmt.Errorf("read %s: %w", noteID, err)
	}

	content := strings.TrimRight(string(data), "\r\n")
	if content != "" {
		content += "\n"
	}
	content += strings.TrimRight(line, "\r\n") + "\n"

	info, err := os.Stat(file)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(file, []byte(content), info.Mode().Perm()); err != nil {
		return err
	}

	v.invalidate(ctx, noteID, false)
	v.debugLog("appended to %s", noteID)
	return nil
}

// CreateNote writes a new note, creating parent folders as needed
func (v *FSVault) CreateNote(ctx context.Context, noteID string, content []byte) error {
	file, err := v.abs(noteID)
	if err != nil {
		return err
	}

	v.writeMu.Lock()
	defer v.writeMu.Unlock()

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("create folder for %s: %w", noteID, err)
	}

	f, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", domain.ErrNoteExists, noteID)
		}
		return fmt.Errorf("create %s: %w", noteID, err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", noteID, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", noteID, err)
	}

	v.invalidate(ctx, noteID, true)
	v.debugLog("created %s", noteID)
	return nil
}

// invalidate drops a note from the cache; structural changes also drop the indexes
func (v *FSVault) invalidate(ctx context.Context, noteID string, structural bool) {
	_ = v.cache.Delete(ctx, noteCachePrefix+noteID)
	if structural {
		v.invalidateIndexes(ctx)
	}
}

func (v *FSVault) invalidateIndexes(ctx context.Context) {
	_ = v.cache.Delete(ctx, indexCachePrefix+"foods")
	_ = v.cache.Delete(ctx, indexCachePrefix+"names")
}

// prefixDeleter is implemented by caches that can drop a key range at once
type prefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) int
}

// invalidateFolder drops every cached note under folder along with the indexes
func (v *FSVault) invalidateFolder(ctx context.Context, folder string) {
	if pd, ok := v.cache.(prefixDeleter); ok {
		n := pd.DeletePrefix(ctx, noteCachePrefix+folder+"/")
		v.debugLog("dropped %d cached notes under %s", n, folder)
	}
	v.invalidateIndexes(ctx)
}

// clearer is implemented by caches that can drop every entry
type clearer interface {
	Clear()
}

// invalidateAll drops everything the vault cached. Without Clear support only the
// indexes go; cached notes then age out with their TTL.
func (v *FSVault) invalidateAll(ctx context.Context) {
	if c, ok := v.cache.(clearer); ok {
		c.Clear()
		v.debugLog("cache cleared")
		return
	}
	v.invalidateIndexes(ctx)
}

// writeFileAtomic writes data to a temp file in the target folder and renames it
// over filename
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}
	return nil
}

var _ domain.Vault = (*FSVault)(nil)
