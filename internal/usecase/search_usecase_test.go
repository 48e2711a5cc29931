package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/counter-map/internal/domain"
	"github.com/counter-map/internal/repository/memory"
	"github.com/counter-map/internal/usecase"
	"github.com/counter-map/internal/usecase/dto"
)

func strPtr(s string) *string { return &s }

func testCounters() []domain.Counter {
	return []domain.Counter{
		{
			CounterID:    101,
			CounterCode:  "DUR-01",
			CounterName:  "American Tobacco Trail",
			Vendor:       "EcoCounter",
			Latitude:     35.9101,
			Longitude:    -78.9512,
			CounterNotes: strPtr("Paved greenway south of downtown Durham"),
		},
		{
			CounterID:   102,
			CounterCode: "RAL-02",
			CounterName: "Reedy Creek Trail",
			Vendor:      "MetroCount",
			Latitude:    35.8012,
			Longitude:   -78.7220,
		},
		{
			CounterID:   205,
			CounterCode: "ASH-03",
			CounterName: "French Broad River Greenway",
			Vendor:      "EcoCounter",
			Latitude:    35.5771,
			Longitude:   -82.5740,
		},
	}
}

func newSearchFixture(t *testing.T) (*usecase.SearchUseCase, *memory.CounterStore, *usecase.MapUseCase, *MockGeocodingRepository) {
	t.Helper()
	logger := zap.NewNop()

	store := memory.NewCounterStore()
	store.Replace(testCounters())

	mapUC := usecase.NewMapUseCase("http://dashboard.local", 0, logger)
	mapUC.SyncMarkers(store.All())

	counterRepo := &MockCounterRepository{}
	counterUC := usecase.NewCounterUseCase(counterRepo, nil, store, mapUC, logger, 0)

	geocodeRepo := &MockGeocodingRepository{}
	searchUC := usecase.NewSearchUseCase(store, geocodeRepo, nil, counterUC, mapUC, logger, 3, 0)

	return searchUC, store, mapUC, geocodeRepo
}

func TestSearchUseCase_Query(t *testing.T) {
	searchUC, _, _, _ := newSearchFixture(t)

	t.Run("matches by name case-insensitively", func(t *testing.T) {
		resp := searchUC.Query("tobacco")

		require.NotEmpty(t, resp.Results)
		assert.Equal(t, dto.ResultKindCounter, resp.Results[0].Kind)
		assert.Equal(t, "American Tobacco Trail", resp.Results[0].Label)
	})

	t.Run("matches by id substring", func(t *testing.T) {
		resp := searchUC.Query("205")

		counters := counterResults(resp)
		require.Len(t, counters, 1)
		assert.Equal(t, 205, counters[0].Counter.CounterID)
	})

	t.Run("matches by vendor", func(t *testing.T) {
		resp := searchUC.Query("ecocounter")

		counters := counterResults(resp)
		assert.Len(t, counters, 2)
	})

	t.Run("matches by notes", func(t *testing.T) {
		resp := searchUC.Query("durham")

		counters := counterResults(resp)
		require.Len(t, counters, 1)
		assert.Equal(t, 101, counters[0].Counter.CounterID)
	})

	t.Run("preserves store order", func(t *testing.T) {
		resp := searchUC.Query("trail")

		counters := counterResults(resp)
		require.Len(t, counters, 2)
		assert.Equal(t, 101, counters[0].Counter.CounterID)
		assert.Equal(t, 102, counters[1].Counter.CounterID)
	})

	t.Run("empty query returns nothing", func(t *testing.T) {
		resp := searchUC.Query("   ")
		assert.Empty(t, resp.Results)
	})

	t.Run("address entry appended for letter queries", func(t *testing.T) {
		resp := searchUC.Query("Hillsborough Street")

		last := resp.Results[len(resp.Results)-1]
		assert.Equal(t, dto.ResultKindAddress, last.Kind)
		assert.Equal(t, "Hillsborough Street", last.Query)
		assert.Equal(t, `Search "Hillsborough Street" as address`, last.Label)
	})

	t.Run("no address entry for pure digits", func(t *testing.T) {
		resp := searchUC.Query("101")

		for _, r := range resp.Results {
			assert.NotEqual(t, dto.ResultKindAddress, r.Kind)
		}
	})

	t.Run("no address entry below minimum length", func(t *testing.T) {
		resp := searchUC.Query("ab")

		for _, r := range resp.Results {
			assert.NotEqual(t, dto.ResultKindAddress, r.Kind)
		}
	})
}

func counterResults(resp dto.SearchResponse) []dto.SearchResult {
	var out []dto.SearchResult
	for _, r := range resp.Results {
		if r.Kind == dto.ResultKindCounter {
			out = append(out, r)
		}
	}
	return out
}

func TestSearchUseCase_Geocode(t *testing.T) {
	ctx := context.Background()

	t.Run("places temp marker and moves camera", func(t *testing.T) {
		searchUC, _, mapUC, geocodeRepo := newSearchFixture(t)

		place := &domain.GeocodedPlace{
			PlaceName: "Raleigh, North Carolina",
			Latitude:  35.7796,
			Longitude: -78.6382,
		}
		geocodeRepo.On("ForwardGeocode", ctx, "Raleigh").Return(place, nil)

		resp, err := searchUC.Geocode(ctx, "Raleigh")
		require.NoError(t, err)
		assert.Equal(t, "Raleigh, North Carolina", resp.Place.PlaceName)

		camera := mapUC.Camera()
		assert.Equal(t, 35.7796, camera.Latitude)
		assert.Equal(t, -78.6382, camera.Longitude)
		assert.Equal(t, 13.0, camera.Zoom)

		markers := mapUC.Markers()
		require.NotNil(t, markers.TempMarker)
		assert.Equal(t, "Raleigh, North Carolina", markers.TempMarker.PlaceName)

		// Reedy Creek Trail is the closest counter to downtown Raleigh.
		require.NotNil(t, resp.NearestCounter)
		assert.Equal(t, 102, resp.NearestCounter.CounterID)
		assert.Greater(t, resp.DistanceKm, 0.0)

		geocodeRepo.AssertExpectations(t)
	})

	t.Run("geocoder failure surfaces as geocoding error", func(t *testing.T) {
		searchUC, _, mapUC, geocodeRepo := newSearchFixture(t)

		geocodeRepo.On("ForwardGeocode", ctx, "nowhere").Return(nil, assert.AnError)

		_, err := searchUC.Geocode(ctx, "nowhere")
		assert.Error(t, err)
		assert.Nil(t, mapUC.Markers().TempMarker)
	})
}
