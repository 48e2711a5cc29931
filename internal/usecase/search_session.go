package usecase

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/counter-map/internal/usecase/dto"
)

// SearchSession is the stateful search bar: debounced text input, the
// current result list and the keyboard cursor over it.
//
// The cursor index lives in [-1, len(results)-1]; -1 means nothing is
// focused. Escape closes the list but keeps the typed text.
type SearchSession struct {
	mu        sync.Mutex
	searchUC  *SearchUseCase
	debouncer *Debouncer
	activate  func(dto.SearchResult)
	logger    *zap.Logger

	query   string
	results []dto.SearchResult
	cursor  int
	open    bool
}

// NewSearchSession wires the session to the engine. activate is invoked
// when Enter lands on a result (counter selection or address geocode);
// it may be nil.
func NewSearchSession(
	searchUC *SearchUseCase,
	debounce time.Duration,
	activate func(dto.SearchResult),
	logger *zap.Logger,
) *SearchSession {
	return &SearchSession{
		searchUC:  searchUC,
		debouncer: NewDebouncer(debounce),
		activate:  activate,
		logger:    logger,
		cursor:    -1,
	}
}

// Input records the current search bar text and schedules a debounced
// re-evaluation. Earlier pending evaluations are cancelled, so rapid
// typing computes results exactly once.
func (s *SearchSession) Input(text string) {
	s.mu.Lock()
	s.query = text
	s.mu.Unlock()

	s.debouncer.Trigger(func() {
		resp := s.searchUC.Query(text)

		s.mu.Lock()
		defer s.mu.Unlock()
		// A newer keystroke may have arrived while this evaluation ran.
		if s.query != text {
			return
		}
		s.results = resp.Results
		s.cursor = -1
		s.open = len(resp.Results) > 0
	})
}

// State returns the current session view.
func (s *SearchSession) State() dto.SessionStateResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]dto.SearchResult, len(s.results))
	copy(results, s.results)

	return dto.SessionStateResponse{
		Query:   s.query,
		Results: results,
		Cursor:  s.cursor,
		Open:    s.open,
	}
}

// Key applies a keyboard event. Down/up clamp the cursor to
// [-1, len(results)-1]; enter activates the focused entry; escape
// dismisses the list without clearing the text field.
func (s *SearchSession) Key(key string) {
	var activated *dto.SearchResult

	s.mu.Lock()
	switch key {
	case "down":
		if s.cursor < len(s.results)-1 {
			s.cursor++
		}
	case "up":
		if s.cursor > -1 {
			s.cursor--
		}
	case "enter":
		if s.cursor >= 0 && s.cursor < len(s.results) {
			res := s.results[s.cursor]
			activated = &res
			s.open = false
		}
	case "escape":
		s.debouncer.Cancel()
		s.open = false
		s.results = nil
		s.cursor = -1
	}
	s.mu.Unlock()

	if activated != nil && s.activate != nil {
		s.logger.Debug("Search result activated", zap.String("kind", string(activated.Kind)))
		s.activate(*activated)
	}
}

// Clear resets the whole session, text included.
func (s *SearchSession) Clear() {
	s.debouncer.Cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = ""
	s.results = nil
	s.cursor = -1
	s.open = false
}
