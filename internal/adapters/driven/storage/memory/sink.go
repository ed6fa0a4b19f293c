package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
)

// Ensure Sink implements the interface.
var _ driven.Sink = (*Sink)(nil)

// Sink is an in-memory implementation of driven.Sink. It stores full
// entries keyed by destination ID and serves as the destination double in
// service and CLI tests.
type Sink struct {
	mu      sync.RWMutex
	entries map[string]domain.Entry // by destination ID

	// FailKeys lists natural keys whose writes fail with domain.ErrSink,
	// for exercising partial-failure tolerance.
	FailKeys map[string]bool
}

// NewSink creates a new in-memory sink.
func NewSink() *Sink {
	return &Sink{
		entries:  make(map[string]domain.Entry),
		FailKeys: make(map[string]bool),
	}
}

// Index returns all stored entries keyed by natural key.
func (s *Sink) Index(_ context.Context) (map[string]domain.Existing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index := make(map[string]domain.Existing, len(s.entries))
	for id, entry := range s.entries {
		index[entry.Key] = domain.Existing{ID: id, Props: cloneProps(entry.Props)}
	}
	return index, nil
}

// Create stores a new entry under a fresh ID.
func (s *Sink) Create(_ context.Context, entry domain.Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailKeys[entry.Key] {
		return "", fmt.Errorf("%w: injected failure for %s", domain.ErrSink, entry.Key)
	}

	id := uuid.NewString()
	s.entries[id] = entry
	return id, nil
}

// Update replaces the entry stored under id.
func (s *Sink) Update(_ context.Context, id string, entry domain.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailKeys[entry.Key] {
		return fmt.Errorf("%w: injected failure for %s", domain.ErrSink, entry.Key)
	}
	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("%w: entry %s", domain.ErrNotFound, id)
	}

	s.entries[id] = entry
	return nil
}

// Len returns the number of stored entries.
func (s *Sink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Get returns the entry stored under the given natural key.
func (s *Sink) Get(key string) (domain.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.entries {
		if entry.Key == key {
			return entry, true
		}
	}
	return domain.Entry{}, false
}

func cloneProps(props map[string]domain.Value) map[string]domain.Value {
	cloned := make(map[string]domain.Value, len(props))
	for k, v := range props {
		cloned[k] = v
	}
	return cloned
}
