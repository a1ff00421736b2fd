package memory

import (
	"context"
	"sync"

	audit "govintel/pkg/platform/audit"
	"govintel/pkg/platform/sentinel"
)

// InMemoryStore keeps audit events in arrival order. Used by tests and by the
// server when AUDIT_SINK=memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
	failN  int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// FailNext makes the next n appends return sentinel.ErrUnavailable.
func (s *InMemoryStore) FailNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failN = n
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failN > 0 {
		s.failN--
		return sentinel.ErrUnavailable
	}
	s.events = append(s.events, event)
	return nil
}

// ListAll returns a copy of every stored event.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events...), nil
}

// ListRecent returns the most recent limit events, oldest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.events) - limit
	if start < 0 || limit <= 0 {
		start = 0
	}
	return append([]audit.Event{}, s.events[start:]...), nil
}

func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
