package memory

import (
	"context"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Store keeps the transaction table in memory. It is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	items []core.Record
}

var _ store.Store = (*Store)(nil)

// New returns a store seeded with the given rows.
func New(seed ...core.Record) *Store {
	return &Store{items: append([]core.Record(nil), seed...)}
}

func (s *Store) Initialize(_ context.Context) error {
	return nil
}

// Append stores the transaction in its persisted form.
func (s *Store) Append(_ context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, t.Record())
	return nil
}

// ReadAll returns a copy of every stored row.
func (s *Store) ReadAll(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record{}, s.items...), nil
}
