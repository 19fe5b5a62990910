// Package progress tracks per-course statuses and derives which courses a
// student can take next.
package progress

import (
	"fmt"
	"maps"
	"sync"

	"github.com/vanderheijden86/coursemap/pkg/model"
)

// Store persists the course status map. Codes without an entry are none.
type Store interface {
	Status(code string) (model.Status, error)
	SetStatus(code string, status model.Status) error
	Statuses() (map[string]model.Status, error)
}

// MemoryStore is a Store that lives only for the process. It backs the TUI
// when no status database is configured, and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	statuses map[string]model.Status
}

// NewMemoryStore returns a store seeded with initial (which is copied).
func NewMemoryStore(initial map[string]model.Status) *MemoryStore {
	s := &MemoryStore{statuses: make(map[string]model.Status, len(initial))}
	for code, st := range initial {
		if st != model.StatusNone {
			s.statuses[code] = st
		}
	}
	return s
}

func (s *MemoryStore) Status(code string) (model.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.statuses[code]; ok {
		return st, nil
	}
	return model.StatusNone, nil
}

func (s *MemoryStore) SetStatus(code string, status model.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == model.StatusNone {
		delete(s.statuses, code)
		return nil
	}
	s.statuses[code] = status
	return nil
}

func (s *MemoryStore) Statuses() (map[string]model.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.statuses), nil
}

// Cycle advances code to its next status and returns it.
func Cycle(store Store, code string) (model.Status, error) {
	cur, err := store.Status(code)
	if err != nil {
		return cur, err
	}
	next := cur.Next()
	if err := store.SetStatus(code, next); err != nil {
		return cur, err
	}
	return next, nil
}
