package usecase

import (
	"sync"

	"go.uber.org/zap"

	"github.com/counter-map/internal/domain"
	"github.com/counter-map/internal/pkg/errors"
	"github.com/counter-map/internal/repository/memory"
	"github.com/counter-map/internal/usecase/dto"
)

// SelectionUseCase tracks the single selected counter, keeps the marker
// highlight in sync and owns the info panel visibility.
type SelectionUseCase struct {
	mu           sync.Mutex
	store        *memory.CounterStore
	mapUC        *MapUseCase
	logger       *zap.Logger
	selected     *int
	panelVisible bool

	// exportInFlight reports whether a raw export is running; while it
	// is, outside clicks must not drop the selection.
	exportInFlight func() bool
}

func NewSelectionUseCase(store *memory.CounterStore, mapUC *MapUseCase, logger *zap.Logger) *SelectionUseCase {
	return &SelectionUseCase{
		store:  store,
		mapUC:  mapUC,
		logger: logger,
	}
}

// BindExportStatus wires the raw-export in-flight probe. Without it the
// controller behaves as if no export ever runs.
func (uc *SelectionUseCase) BindExportStatus(inFlight func() bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.exportInFlight = inFlight
}

// Select makes the counter current: every marker is reset to the
// default style first, then the target gets the highlight, the camera
// moves there and the info panel opens.
func (uc *SelectionUseCase) Select(counterID int) (*dto.SelectionResponse, error) {
	counter, ok := uc.store.Get(counterID)
	if !ok {
		return nil, errors.ErrCounterNotFound
	}

	// Highlight resets all styles before applying the new one, so the
	// single-highlight invariant holds across reselects.
	uc.mapUC.Highlight(counterID)
	uc.mapUC.FlyTo(counter.Latitude, counter.Longitude, 14)

	uc.mu.Lock()
	id := counterID
	uc.selected = &id
	uc.panelVisible = true
	uc.mu.Unlock()

	uc.logger.Debug("Counter selected", zap.Int("counter_id", counterID))

	return &dto.SelectionResponse{
		Counter:      &counter,
		PanelVisible: true,
		DashboardURL: uc.mapUC.DashboardLink(counterID),
	}, nil
}

// Current returns the selected counter, or nil.
func (uc *SelectionUseCase) Current() *domain.Counter {
	uc.mu.Lock()
	selected := uc.selected
	uc.mu.Unlock()

	if selected == nil {
		return nil
	}
	counter, ok := uc.store.Get(*selected)
	if !ok {
		// Selection can outlive a reload that dropped the counter.
		return nil
	}
	return &counter
}

// State returns the selection view for the UI.
func (uc *SelectionUseCase) State() dto.SelectionResponse {
	counter := uc.Current()

	uc.mu.Lock()
	visible := uc.panelVisible
	uc.mu.Unlock()

	resp := dto.SelectionResponse{Counter: counter, PanelVisible: visible && counter != nil}
	if counter != nil {
		resp.DashboardURL = uc.mapUC.DashboardLink(counter.CounterID)
	}
	return resp
}

// Clear drops the selection, hides the panel and resets marker styles.
func (uc *SelectionUseCase) Clear() {
	uc.mu.Lock()
	uc.selected = nil
	uc.panelVisible = false
	uc.mu.Unlock()

	uc.mapUC.ResetStyles()
	uc.logger.Debug("Selection cleared")
}

// OutsideClick handles a click landing in some UI region. Clicks on
// interactive regions keep the selection; anything else clears it,
// except while a raw export is in flight. Returns true when the
// selection was cleared.
func (uc *SelectionUseCase) OutsideClick(region dto.UIRegion) bool {
	if region.Interactive() {
		return false
	}

	uc.mu.Lock()
	guard := uc.exportInFlight
	uc.mu.Unlock()

	if guard != nil && guard() {
		uc.logger.Debug("Outside click ignored during export")
		return false
	}

	uc.Clear()
	return true
}
