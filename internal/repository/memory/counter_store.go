package memory

import (
	"sync"

	"github.com/counter-map/internal/domain"
)

// CounterStore is the in-memory ordered collection of counter records.
// The set is replaced wholesale by Replace and never mutated partially.
type CounterStore struct {
	mu       sync.RWMutex
	counters []domain.Counter
	byID     map[int]int // counter_id -> index
}

func NewCounterStore() *CounterStore {
	return &CounterStore{
		byID: make(map[int]int),
	}
}

// Replace swaps the whole counter set, preserving upstream order.
func (s *CounterStore) Replace(counters []domain.Counter) {
	byID := make(map[int]int, len(counters))
	for i, c := range counters {
		byID[c.CounterID] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = counters
	s.byID = byID
}

// All returns a snapshot of the counter set in store order.
func (s *CounterStore) All() []domain.Counter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Counter, len(s.counters))
	copy(out, s.counters)
	return out
}

// Get returns one counter by id.
func (s *CounterStore) Get(counterID int) (domain.Counter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[counterID]
	if !ok {
		return domain.Counter{}, false
	}
	return s.counters[idx], true
}

// Len returns the number of counters in the store.
func (s *CounterStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.counters)
}
