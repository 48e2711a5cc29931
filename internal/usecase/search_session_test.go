package usecase_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/counter-map/internal/usecase"
	"github.com/counter-map/internal/usecase/dto"
)

const testDebounce = 20 * time.Millisecond

// settle waits long enough for a pending debounced evaluation to run.
func settle() {
	time.Sleep(5 * testDebounce)
}

func newSession(t *testing.T, activate func(dto.SearchResult)) *usecase.SearchSession {
	t.Helper()
	searchUC, _, _, _ := newSearchFixture(t)
	return usecase.NewSearchSession(searchUC, testDebounce, activate, zap.NewNop())
}

func TestSearchSession_Input(t *testing.T) {
	t.Run("results appear after the debounce window", func(t *testing.T) {
		s := newSession(t, nil)

		s.Input("trail")

		// Nothing yet: the evaluation is still pending.
		assert.False(t, s.State().Open)

		settle()

		state := s.State()
		assert.True(t, state.Open)
		assert.NotEmpty(t, state.Results)
		assert.Equal(t, -1, state.Cursor)
	})

	t.Run("rapid typing keeps only the final query", func(t *testing.T) {
		s := newSession(t, nil)

		s.Input("t")
		s.Input("to")
		s.Input("tobacco")

		settle()

		state := s.State()
		assert.Equal(t, "tobacco", state.Query)
		counters := counterResults(dto.SearchResponse{Results: state.Results})
		require.Len(t, counters, 1)
		assert.Equal(t, "American Tobacco Trail", counters[0].Label)
	})

	t.Run("list stays closed for no matches", func(t *testing.T) {
		s := newSession(t, nil)

		s.Input("42")
		settle()

		state := s.State()
		assert.False(t, state.Open)
		assert.Empty(t, state.Results)
	})
}

func TestSearchSession_Key(t *testing.T) {
	t.Run("cursor clamps at both ends", func(t *testing.T) {
		s := newSession(t, nil)
		s.Input("trail")
		settle()

		n := len(s.State().Results)
		require.Greater(t, n, 0)

		// Down beyond the end stays at the last entry.
		for i := 0; i < n+5; i++ {
			s.Key("down")
		}
		assert.Equal(t, n-1, s.State().Cursor)

		// Up beyond the start stays at -1.
		for i := 0; i < n+5; i++ {
			s.Key("up")
		}
		assert.Equal(t, -1, s.State().Cursor)
	})

	t.Run("enter activates the focused result and closes the list", func(t *testing.T) {
		var activated atomic.Value
		s := newSession(t, func(r dto.SearchResult) {
			activated.Store(r)
		})
		s.Input("tobacco")
		settle()

		s.Key("down")
		s.Key("enter")

		got, ok := activated.Load().(dto.SearchResult)
		require.True(t, ok)
		assert.Equal(t, dto.ResultKindCounter, got.Kind)
		assert.Equal(t, 101, got.Counter.CounterID)
		assert.False(t, s.State().Open)
	})

	t.Run("enter without focus does nothing", func(t *testing.T) {
		called := false
		s := newSession(t, func(dto.SearchResult) { called = true })
		s.Input("trail")
		settle()

		s.Key("enter")

		assert.False(t, called)
		assert.True(t, s.State().Open)
	})

	t.Run("escape closes the list but keeps the text", func(t *testing.T) {
		s := newSession(t, nil)
		s.Input("trail")
		settle()

		s.Key("escape")

		state := s.State()
		assert.False(t, state.Open)
		assert.Empty(t, state.Results)
		assert.Equal(t, "trail", state.Query)
	})

	t.Run("escape cancels a pending evaluation", func(t *testing.T) {
		s := newSession(t, nil)
		s.Input("trail")
		s.Key("escape")

		settle()

		assert.False(t, s.State().Open)
		assert.Empty(t, s.State().Results)
	})
}

func TestSearchSession_Clear(t *testing.T) {
	s := newSession(t, nil)
	s.Input("trail")
	settle()

	s.Clear()

	state := s.State()
	assert.Empty(t, state.Query)
	assert.Empty(t, state.Results)
	assert.Equal(t, -1, state.Cursor)
	assert.False(t, state.Open)
}
