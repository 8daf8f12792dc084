package mapping

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotLoaded is returned when a Store is used before Load.
var ErrNotLoaded = errors.New("mapping store not loaded")

// Backend reads and writes the full content of a mapping store.
type Backend interface {
	// Load returns every persisted entry. A store that was never written
	// returns an empty slice and no error.
	Load(ctx context.Context) ([]Entry, error)
	// Save replaces the persisted content with entries. Readers must never
	// observe a partially written store.
	Save(ctx context.Context, entries []Entry) error
	// Describe returns a human readable location for log output.
	Describe() string
}

// Store is the in-memory view of a mapping backend.
type Store struct {
	backend Backend

	mu      sync.RWMutex
	entries []Entry
	index   map[string]int
	loaded  bool
}

// NewStore creates a store over the given backend. Call Load before use.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Load reads the backend fully, replacing any in-memory state.
func (s *Store) Load(ctx context.Context) ([]Entry, error) {
	entries, err := s.backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load mappings from %s: %w", s.backend.Describe(), err)
	}

	entries = dedupe(entries)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(entries)
	s.loaded = true

	return s.snapshot(), nil
}

// EnsureLoaded loads the store unless that already happened.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	_, err := s.Load(ctx)
	return err
}

// Loaded reports whether Load has completed.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Lookup finds the entry for model by exact, case-sensitive equality.
func (s *Store) Lookup(model string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[model]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Entries returns a copy of all entries in store order.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// AppendAndPersist adds entries and rewrites the backend. An entry for a model
// that is already present replaces the old one in place. Nothing is written
// when entries is empty. The in-memory state only changes if the write
// succeeds.
func (s *Store) AppendAndPersist(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}

	next := make([]Entry, 0, len(s.entries)+len(entries))
	next = append(next, s.entries...)
	next = append(next, entries...)
	next = dedupe(next)

	if err := s.backend.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to persist mappings to %s: %w", s.backend.Describe(), err)
	}

	s.set(next)
	return nil
}

// Replace rewrites the store with exactly entries.
func (s *Store) Replace(ctx context.Context, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}

	next := dedupe(entries)
	if err := s.backend.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to persist mappings to %s: %w", s.backend.Describe(), err)
	}

	s.set(next)
	return nil
}

func (s *Store) set(entries []Entry) {
	s.entries = entries
	s.index = make(map[string]int, len(entries))
	for i, e := range entries {
		s.index[e.ObservedModel] = i
	}
}

func (s *Store) snapshot() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
