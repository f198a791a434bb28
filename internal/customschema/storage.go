package customschema

import (
	"context"
	"sync"

	"schemagraph/internal/schemaerr"
)

// Storage persists the entry list of each page with an optimistic version.
type Storage interface {
	// Load returns the entries of pageID and the version they were read at.
	// A page with nothing stored has version 0.
	Load(ctx context.Context, pageID uint) ([]Entry, int64, error)
	// Save replaces the entries of pageID when the stored version still equals
	// expected, and fails with a STORAGE_CONFLICT error otherwise.
	Save(ctx context.Context, pageID uint, entries []Entry, expected int64) error
}

type memoryRecord struct {
	entries []Entry
	version int64
}

// MemoryStorage keeps entry lists in process memory.
type MemoryStorage struct {
	mu    sync.Mutex
	pages map[uint]memoryRecord
}

// NewMemoryStorage creates an empty storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{pages: make(map[uint]memoryRecord)}
}

func (m *MemoryStorage) Load(_ context.Context, pageID uint) ([]Entry, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.pages[pageID]
	return cloneEntries(rec.entries), rec.version, nil
}

func (m *MemoryStorage) Save(_ context.Context, pageID uint, entries []Entry, expected int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.pages[pageID]
	if rec.version != expected {
		return schemaerr.New(schemaerr.ErrCodeStorageConflict,
			"custom schemas of page %d changed (version %d, expected %d)", pageID, rec.version, expected)
	}
	m.pages[pageID] = memoryRecord{entries: cloneEntries(entries), version: rec.version + 1}
	return nil
}
