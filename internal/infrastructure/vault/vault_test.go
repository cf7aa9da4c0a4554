package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
	"github.com/jpfieber/jots-food-tracker/internal/infrastructure/cache"
)

const oatsNote = `---
fileClass: Ingredient
name: Rolled Oats
calories: 379
protein: 13.2
servings:
  - Cup | 81g
  - Default | 100g
---
# Rolled Oats
`

const recipeNote = `---
fileClass: Recipe
---
servings:: 4

## Ingredients
- [c] [[Rolled Oats]] serving:: cup qty:: 2
- [ ] [[Milk|whole milk]] serving:: cup
> - [c] quoted task
* [x] other marker
`

func writeNote(t *testing.T, root, id, content string) {
	t.Helper()
	file := filepath.Join(root, filepath.FromSlash(id))
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
}

func newTestVault(t *testing.T) (*FSVault, string) {
	t.Helper()
	root := t.TempDir()
	c := cache.NewMemoryCache(time.Minute)
	t.Cleanup(c.Close)

	v, err := New(Config{
		Root:            root,
		FoodFolder:      "Food",
		USDAFolder:      "Food/USDA",
		RecipesFolder:   "Recipes",
		ExcludedFolders: []string{"Food/Templates"},
		TaskPrefix:      "c",
		Journal:         JournalLayout{RootFolder: "Journal", FolderPattern: "YYYY/MM", FilePattern: "YYYY-MM-DD_ddd"},
	}, c)
	require.NoError(t, err)
	return v, root
}

func TestNew(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, err := New(Config{Root: filepath.Join(t.TempDir(), "nope")}, cache.NewMemoryCache(time.Minute))
		assert.Error(t, err)
	})

	t.Run("root is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.md")
		require.NoError(t, os.WriteFile(file, nil, 0o644))
		_, err := New(Config{Root: file}, cache.NewMemoryCache(time.Minute))
		assert.Error(t, err)
	})

	t.Run("defaults the task prefix", func(t *testing.T) {
		v, err := New(Config{Root: t.TempDir()}, cache.NewMemoryCache(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, "c", v.cfg.TaskPrefix)
	})
}

func TestFrontmatter(t *testing.T) {
	v, root := newTestVault(t)
	ctx := context.Background()
	writeNote(t, root, "Food/Rolled Oats.md", oatsNote)
	writeNote(t, root, "Food/Plain.md", "# Plain\n")

	fm, err := v.Frontmatter(ctx, "Food/Rolled Oats.md")
	require.NoError(t, err)
	assert.Equal(t, "Rolled Oats", fm["name"])
	assert.EqualValues(t, 379, fm["calories"])
	assert.Len(t, fm["servings"], 2)

	_, err = v.Frontmatter(ctx, "Food/Plain.md")
	assert.ErrorIs(t, err, domain.ErrNoData)

	_, err = v.Frontmatter(ctx, "Food/Missing.md")
	assert.ErrorIs(t, err, domain.ErrNoteNotFound)
}

func TestTasks(t *testing.T) {
	v, root := newTestVault(t)
	writeNote(t, root, "Recipes/Porridge.md", recipeNote)

	tasks, err := v.Tasks(context.Background(), "Recipes/Porridge.md")
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	assert.Equal(t, domain.Task{Description: "[[Rolled Oats]] serving:: cup qty:: 2", Symbol: "c", Completed: true}, tasks[0])
	assert.False(t, tasks[1].Completed)
	assert.Equal(t, " ", tasks[1].Symbol)
	assert.Equal(t, "quoted task", tasks[2].Description)
	assert.True(t, tasks[2].Completed)
	assert.Equal(t, "x", tasks[3].Symbol)
	assert.False(t, tasks[3].Completed)
}

func TestParseTasks_CustomPrefix(t *testing.T) {
	tasks := parseTasks("- [f] eaten\n- [c] other\nplain line\n", "f")
	require.Len(t, tasks, 2)
	assert.True(t, tasks[0].Completed)
	assert.False(t, tasks[1].Completed)
}

func TestReadTextIsCached(t *testing.T) {
	v, root := newTestVault(t)
	ctx := context.Background()
	writeNote(t, root, "Note.md", "first\n")

	text, err := v.ReadText(ctx, "Note.md")
	require.NoError(t, err)
	assert.Equal(t, "first\n", text)

	// external edits are only seen after invalidation
	writeNote(t, root, "Note.md", "second\n")
	text, _ = v.ReadText(ctx, "Note.md")
	assert.Equal(t, "first\n", text)

	v.invalidate(ctx, "Note.md", false)
	text, _ = v.ReadText(ctx, "Note.md")
	assert.Equal(t, "second\n", text)
}

func TestAppendLine(t *testing.T) {
	ctx := context.Background()

	t.Run("appends on its own line", func(t *testing.T) {
		v, root := newTestVault(t)
		writeNote(t, root, "Journal/day.md", "# Day\n- [c] earlier\n\n\n")

		_, err := v.ReadText(ctx, "Journal/day.md")
		require.NoError(t, err)

		require.NoError(t, v.AppendLine(ctx, "Journal/day.md", "- [c] later"))

		text, err := v.ReadText(ctx, "Journal/day.md")
		require.NoError(t, err)
		assert.Equal(t, "# Day\n- [c] earlier\n- [c] later\n", text)

		tasks, err := v.Tasks(ctx, "Journal/day.md")
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
	})

	t.Run("appends to an empty note", func(t *testing.T) {
		v, root := newTestVault(t)
		writeNote(t, root, "empty.md", "")

		require.NoError(t, v.AppendLine(ctx, "empty.md", "line\n"))
		data, err := os.ReadFile(filepath.Join(root, "empty.md"))
		require.NoError(t, err)
		assert.Equal(t, "line\n", string(data))
	})

	t.Run("missing note", func(t *testing.T) {
		v, _ := newTestVault(t)
		err := v.AppendLine(ctx, "Journal/none.md", "x")
		assert.ErrorIs(t, err, domain.ErrNoteNotFound)
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		v, root := newTestVault(t)
		writeNote(t, root, "a.md", "a\n")
		require.NoError(t, v.AppendLine(ctx, "a.md", "b"))

		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestCreateNote(t *testing.T) {
	v, root := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.CreateNote(ctx, "Journal/2026/10/new.md", []byte("# New\n")))
	data, err := os.ReadFile(filepath.Join(root, "Journal", "2026", "10", "new.md"))
	require.NoError(t, err)
	assert.Equal(t, "# New\n", string(data))

	err = v.CreateNote(ctx, "Journal/2026/10/new.md", []byte("again"))
	assert.ErrorIs(t, err, domain.ErrNoteExists)
}

func TestAbsStaysInsideRoot(t *testing.T) {
	v, root := newTestVault(t)

	file, err := v.abs("../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "etc", "passwd"), file)

	_, err = v.abs("")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
