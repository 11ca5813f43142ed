package result

import (
	"context"
	"sort"
	"sync"

	"github.com/quantgeo/gannwheel/internal/core"
)

// MemoryStore is an in-memory result store. Saving an existing key
// replaces the previous entry.
type MemoryStore struct {
	entries map[Key]Entry
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[Key]Entry)}
}

// Save stores or replaces the entry for its key.
func (m *MemoryStore) Save(ctx context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.Key] = entry
	return nil
}

// Get retrieves the entry for a key.
func (m *MemoryStore) Get(ctx context.Context, key Key) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &entry, nil
}

// List returns entries matching the filter, newest first.
func (m *MemoryStore) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []Entry
	for _, entry := range m.entries {
		if m.matches(entry, filter) {
			result = append(result, entry)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].SavedAt.Equal(result[j].SavedAt) {
			return result[i].SavedAt.After(result[j].SavedAt)
		}
		return result[i].Key.Symbol < result[j].Key.Symbol
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []Entry{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

// Count returns the count of matching entries.
func (m *MemoryStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, entry := range m.entries {
		if m.matches(entry, filter) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) matches(entry Entry, filter ListFilter) bool {
	if filter.Symbol != "" && entry.Key.Symbol != filter.Symbol {
		return false
	}
	if filter.Period != "" && entry.Key.Period != filter.Period {
		return false
	}
	if !filter.Since.IsZero() && entry.SavedAt.Before(filter.Since) {
		return false
	}
	return true
}
