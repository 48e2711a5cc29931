package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/counter-map/internal/domain"
	"github.com/counter-map/internal/pkg/errors"
	"github.com/counter-map/internal/repository/memory"
	"github.com/counter-map/internal/usecase"
	"github.com/counter-map/internal/usecase/dto"
)

func newSelectionFixture(t *testing.T) (*usecase.SelectionUseCase, *memory.CounterStore, *usecase.MapUseCase) {
	t.Helper()
	logger := zap.NewNop()

	store := memory.NewCounterStore()
	store.Replace(testCounters())

	mapUC := usecase.NewMapUseCase("http://dashboard.local", 0, logger)
	mapUC.SyncMarkers(store.All())

	return usecase.NewSelectionUseCase(store, mapUC, logger), store, mapUC
}

// highlightedIDs collects the counter ids whose marker carries the
// highlight style.
func highlightedIDs(mapUC *usecase.MapUseCase) []int {
	var out []int
	for _, m := range mapUC.Markers().Markers {
		if m.Style == domain.HighlightMarkerStyle {
			out = append(out, m.CounterID)
		}
	}
	return out
}

func TestSelectionUseCase_Select(t *testing.T) {
	t.Run("highlights the counter and opens the panel", func(t *testing.T) {
		selectionUC, _, mapUC := newSelectionFixture(t)

		resp, err := selectionUC.Select(101)
		require.NoError(t, err)
		assert.True(t, resp.PanelVisible)
		assert.Equal(t, 101, resp.Counter.CounterID)
		assert.Contains(t, resp.DashboardURL, "counter_id%3A101")

		assert.Equal(t, []int{101}, highlightedIDs(mapUC))

		camera := mapUC.Camera()
		assert.Equal(t, 35.9101, camera.Latitude)
		assert.Equal(t, 14.0, camera.Zoom)
	})

	t.Run("reselect moves the single highlight", func(t *testing.T) {
		selectionUC, _, mapUC := newSelectionFixture(t)

		_, err := selectionUC.Select(101)
		require.NoError(t, err)
		_, err = selectionUC.Select(205)
		require.NoError(t, err)

		assert.Equal(t, []int{205}, highlightedIDs(mapUC))

		current := selectionUC.Current()
		require.NotNil(t, current)
		assert.Equal(t, 205, current.CounterID)
	})

	t.Run("unknown counter", func(t *testing.T) {
		selectionUC, _, _ := newSelectionFixture(t)

		_, err := selectionUC.Select(999)
		assert.ErrorIs(t, err, errors.ErrCounterNotFound)
	})

	t.Run("selection dropped by a reload resolves to nil", func(t *testing.T) {
		selectionUC, store, _ := newSelectionFixture(t)

		_, err := selectionUC.Select(101)
		require.NoError(t, err)

		store.Replace(testCounters()[1:])

		assert.Nil(t, selectionUC.Current())
		assert.False(t, selectionUC.State().PanelVisible)
	})
}

func TestSelectionUseCase_Clear(t *testing.T) {
	selectionUC, _, mapUC := newSelectionFixture(t)

	_, err := selectionUC.Select(102)
	require.NoError(t, err)

	selectionUC.Clear()

	assert.Nil(t, selectionUC.Current())
	assert.Empty(t, highlightedIDs(mapUC))
	assert.False(t, selectionUC.State().PanelVisible)
}

func TestSelectionUseCase_OutsideClick(t *testing.T) {
	t.Run("map click clears the selection", func(t *testing.T) {
		selectionUC, _, mapUC := newSelectionFixture(t)
		_, err := selectionUC.Select(101)
		require.NoError(t, err)

		cleared := selectionUC.OutsideClick(dto.RegionMap)

		assert.True(t, cleared)
		assert.Nil(t, selectionUC.Current())
		assert.Empty(t, highlightedIDs(mapUC))
	})

	t.Run("interactive regions keep the selection", func(t *testing.T) {
		selectionUC, _, _ := newSelectionFixture(t)
		_, err := selectionUC.Select(101)
		require.NoError(t, err)

		for _, region := range []dto.UIRegion{
			dto.RegionInfoPanel, dto.RegionMarker, dto.RegionSearchBox, dto.RegionDownload,
		} {
			cleared := selectionUC.OutsideClick(region)
			assert.False(t, cleared, "region %s must not clear", region)
			assert.NotNil(t, selectionUC.Current())
		}
	})

	t.Run("clicks are ignored while an export runs", func(t *testing.T) {
		selectionUC, _, _ := newSelectionFixture(t)
		_, err := selectionUC.Select(101)
		require.NoError(t, err)

		exporting := true
		selectionUC.BindExportStatus(func() bool { return exporting })

		cleared := selectionUC.OutsideClick(dto.RegionMap)
		assert.False(t, cleared)
		assert.NotNil(t, selectionUC.Current())

		exporting = false
		cleared = selectionUC.OutsideClick(dto.RegionMap)
		assert.True(t, cleared)
		assert.Nil(t, selectionUC.Current())
	})
}
