package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counter-map/internal/domain"
)

func sampleCounters(n int) []domain.Counter {
	counters := make([]domain.Counter, n)
	for i := range counters {
		counters[i] = domain.Counter{
			CounterID:   100 + i,
			CounterCode: fmt.Sprintf("TST-%02d", i),
			CounterName: fmt.Sprintf("Counter %d", i),
			Vendor:      "EcoCounter",
			Latitude:    35.0 + float64(i)*0.1,
			Longitude:   -79.0 - float64(i)*0.1,
		}
	}
	return counters
}

func TestCounterStore_Replace(t *testing.T) {
	store := NewCounterStore()
	assert.Equal(t, 0, store.Len())

	store.Replace(sampleCounters(3))
	assert.Equal(t, 3, store.Len())

	// A second replace drops records not in the new set.
	store.Replace(sampleCounters(2))
	assert.Equal(t, 2, store.Len())

	_, ok := store.Get(102)
	assert.False(t, ok)
}

func TestCounterStore_All(t *testing.T) {
	store := NewCounterStore()
	counters := sampleCounters(5)
	store.Replace(counters)

	snapshot := store.All()
	require.Equal(t, counters, snapshot)

	// Mutating the snapshot must not leak into the store.
	snapshot[0].CounterName = "mutated"
	got, ok := store.Get(100)
	require.True(t, ok)
	assert.Equal(t, "Counter 0", got.CounterName)
}

func TestCounterStore_Get(t *testing.T) {
	store := NewCounterStore()
	store.Replace(sampleCounters(3))

	c, ok := store.Get(101)
	require.True(t, ok)
	assert.Equal(t, "Counter 1", c.CounterName)

	_, ok = store.Get(999)
	assert.False(t, ok)
}

func TestCounterStore_ConcurrentAccess(t *testing.T) {
	store := NewCounterStore()
	store.Replace(sampleCounters(10))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if i%2 == 0 {
					store.Replace(sampleCounters(10))
				} else {
					_ = store.All()
					_, _ = store.Get(105)
					_ = store.Len()
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, store.Len())
}
