package memory

import (
	"context"
	"sync"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs []domain.RunSummary // newest last
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// Record appends one run summary.
func (s *RunStore) Record(_ context.Context, summary *domain.RunSummary) error {
	if summary == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, *summary)
	return nil
}

// Recent returns the most recent summaries, newest first.
func (s *RunStore) Recent(_ context.Context, limit int) ([]domain.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.runs) {
		limit = len(s.runs)
	}
	out := make([]domain.RunSummary, 0, limit)
	for i := len(s.runs) - 1; i >= len(s.runs)-limit; i-- {
		out = append(out, s.runs[i])
	}
	return out, nil
}

// Close implements driven.RunStore.
func (s *RunStore) Close() error {
	return nil
}
