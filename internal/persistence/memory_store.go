package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/petrijr/canopy/pkg/api"
)

// InMemoryTraceStore is a simple, goroutine-safe TraceStore backed by maps.
type InMemoryTraceStore struct {
	mu     sync.RWMutex
	runs   []string
	events map[string][]api.TickEvent
}

var _ api.TraceStore = (*InMemoryTraceStore)(nil)

// NewInMemoryTraceStore creates a new InMemoryTraceStore.
func NewInMemoryTraceStore() *InMemoryTraceStore {
	return &InMemoryTraceStore{
		events: make(map[string][]api.TickEvent),
	}
}

func (s *InMemoryTraceStore) AppendEvent(ctx context.Context, ev api.TickEvent) error {
	if err := checkEvent(ev); err != nil {
		return err
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[ev.RunID]; !ok {
		s.runs = append(s.runs, ev.RunID)
	}
	s.events[ev.RunID] = append(s.events[ev.RunID], ev)
	return nil
}

func (s *InMemoryTraceStore) ListEvents(ctx context.Context, runID string) ([]api.TickEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	evs := s.events[runID]
	out := make([]api.TickEvent, len(evs))
	copy(out, evs)
	return out, nil
}

func (s *InMemoryTraceStore) ListRuns(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.runs))
	copy(out, s.runs)
	return out, nil
}
