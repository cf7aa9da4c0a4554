package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data     map[string]any
	setError error
	gets     int
	sets     int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string]any)}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (any, error) {
	m.gets++
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.sets++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockUSDAClient is a mock implementation of domain.USDAClient
type MockUSDAClient struct {
	searchResult *domain.USDASearchResponse
	searchError  error
	foods        map[int]*domain.USDAFood
	foodError    error

	searchCalls  int
	detailsCalls int
	lastQuery    string
}

func NewMockUSDAClient() *MockUSDAClient {
	return &MockUSDAClient{foods: make(map[int]*domain.USDAFood)}
}

func (m *MockUSDAClient) SearchFoods(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	m.searchCalls++
	m.lastQuery = query
	if m.searchError != nil {
		return nil, m.searchError
	}
	return m.searchResult, nil
}

func (m *MockUSDAClient) GetFoodDetails(ctx context.Context, fdcID int) (*domain.USDAFood, error) {
	m.detailsCalls++
	if m.foodError != nil {
		return nil, m.foodError
	}
	food, ok := m.foods[fdcID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return food, nil
}

// mockNote is one note of a MockVault
type mockNote struct {
	frontmatter map[string]any
	text        string
	tasks       []domain.Task
}

// MockVault is an in-memory implementation of domain.Vault. Note names resolve to
// "<name>.md" unless an explicit alias is registered.
type MockVault struct {
	notes   map[string]*mockNote
	aliases map[string]string
	foods   []domain.FoodItem

	appended    map[string][]string
	created     []string
	written     []domain.FoodNote
	writeError  error
	appendError error
}

func NewMockVault() *MockVault {
	return &MockVault{
		notes:    make(map[string]*mockNote),
		aliases:  make(map[string]string),
		appended: make(map[string][]string),
	}
}

func (m *MockVault) addNote(noteID string, fm map[string]any, text string, tasks ...domain.Task) {
	m.notes[noteID] = &mockNote{frontmatter: fm, text: text, tasks: tasks}
}

func (m *MockVault) Frontmatter(ctx context.Context, noteID string) (map[string]any, error) {
	n, ok := m.notes[noteID]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	if n.frontmatter == nil {
		return nil, domain.ErrNoData
	}
	return n.frontmatter, nil
}

func (m *MockVault) Tasks(ctx context.Context, noteID string) ([]domain.Task, error) {
	n, ok := m.notes[noteID]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	return n.tasks, nil
}

func (m *MockVault) ReadText(ctx context.Context, noteID string) (string, error) {
	n, ok := m.notes[noteID]
	if !ok {
		return "", domain.ErrNoteNotFound
	}
	return n.text, nil
}

func (m *MockVault) AppendLine(ctx context.Context, noteID, line string) error {
	if m.appendError != nil {
		return m.appendError
	}
	if _, ok := m.notes[noteID]; !ok {
		return domain.ErrNoteNotFound
	}
	m.appended[noteID] = append(m.appended[noteID], line)
	return nil
}

func (m *MockVault) ResolveNoteID(ctx context.Context, name string) (string, error) {
	if id, ok := m.aliases[name]; ok {
		return id, nil
	}
	id := name + ".md"
	if _, ok := m.notes[id]; !ok {
		return "", domain.ErrNoteNotFound
	}
	return id, nil
}

func (m *MockVault) CreateNote(ctx context.Context, noteID string, content []byte) error {
	if _, ok := m.notes[noteID]; ok {
		return domain.ErrNoteExists
	}
	m.notes[noteID] = &mockNote{text: string(content)}
	m.created = append(m.created, noteID)
	return nil
}

func (m *MockVault) WriteFoodNote(ctx context.Context, folder string, note domain.FoodNote) (string, error) {
	if m.writeError != nil {
		return "", m.writeError
	}
	id := strings.TrimSuffix(folder, "/") + "/" + note.Name + ".md"
	if _, ok := m.notes[id]; ok {
		return "", domain.ErrNoteExists
	}
	m.notes[id] = &mockNote{}
	m.written = append(m.written, note)
	return id, nil
}

func (m *MockVault) ListFoods(ctx context.Context) ([]domain.FoodItem, error) {
	return m.foods, nil
}

func (m *MockVault) JournalNoteID(date time.Time) string {
	return "Journal/" + date.Format("2006-01-02") + ".md"
}

var _ domain.Vault = (*MockVault)(nil)
