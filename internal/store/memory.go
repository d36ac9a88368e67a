package store

import (
	"sync"
	"time"

	"github.com/i474232898/date-facts/internal/facts"
)

// MemoryStore is a concurrency-safe in-memory implementation of a fact store.
// Entries are overwritten, never appended.
type MemoryStore struct {
	mu sync.RWMutex

	// key: date key, value: latest entry
	data map[facts.DateKey]facts.CacheEntry

	// optional max age for entries; 0 keeps them for the process lifetime
	maxAge time.Duration

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore.
// If maxAge is <= 0, entries never go stale.
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:   make(map[facts.DateKey]facts.CacheEntry),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Get returns the entry for key unless it is missing or stale.
func (s *MemoryStore) Get(key facts.DateKey) (facts.CacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.data[key]
	if !ok {
		return facts.CacheEntry{}, false
	}

	// Enforce retention by age.
	if s.maxAge > 0 && s.now().Sub(entry.FetchedAt) > s.maxAge {
		return facts.CacheEntry{}, false
	}
	return entry, true
}

// Save stores entry, replacing any previous entry for the same key.
func (s *MemoryStore) Save(entry facts.CacheEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[entry.Key] = entry
}

// Delete removes the entry for key. Deleting a missing key is a no-op.
func (s *MemoryStore) Delete(key facts.DateKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
}

// Clear removes every entry.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[facts.DateKey]facts.CacheEntry)
}

// Len returns the number of stored entries, stale ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}
