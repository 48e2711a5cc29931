package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/counter-map/internal/pkg/errors"
	"github.com/counter-map/internal/repository/memory"
	"github.com/counter-map/internal/usecase"
)

func newCounterFixture(t *testing.T) (*usecase.CounterUseCase, *MockCounterRepository, *memory.CounterStore, *usecase.MapUseCase) {
	t.Helper()
	logger := zap.NewNop()

	store := memory.NewCounterStore()
	mapUC := usecase.NewMapUseCase("http://dashboard.local", 0, logger)
	counterRepo := &MockCounterRepository{}
	counterUC := usecase.NewCounterUseCase(counterRepo, nil, store, mapUC, logger, 0)

	return counterUC, counterRepo, store, mapUC
}

func TestCounterUseCase_Reload(t *testing.T) {
	ctx := context.Background()

	t.Run("fills the store and syncs markers", func(t *testing.T) {
		counterUC, counterRepo, store, mapUC := newCounterFixture(t)
		counterRepo.On("ListCounters", ctx).Return(testCounters(), nil)

		err := counterUC.Reload(ctx)
		require.NoError(t, err)

		assert.Equal(t, 3, store.Len())
		assert.Len(t, mapUC.Markers().Markers, 3)
		counterRepo.AssertExpectations(t)
	})

	t.Run("upstream failure leaves the store untouched", func(t *testing.T) {
		counterUC, counterRepo, store, mapUC := newCounterFixture(t)
		counterRepo.On("ListCounters", ctx).Return(testCounters(), nil).Once()
		counterRepo.On("ListCounters", ctx).Return(nil, assert.AnError).Once()

		require.NoError(t, counterUC.Reload(ctx))

		err := counterUC.Reload(ctx)
		assert.ErrorIs(t, err, errors.ErrUpstreamUnavailable)
		assert.Equal(t, 3, store.Len())
		assert.Len(t, mapUC.Markers().Markers, 3)
	})

	t.Run("reload replaces wholesale", func(t *testing.T) {
		counterUC, counterRepo, store, mapUC := newCounterFixture(t)
		counterRepo.On("ListCounters", ctx).Return(testCounters(), nil).Once()
		counterRepo.On("ListCounters", ctx).Return(testCounters()[:1], nil).Once()

		require.NoError(t, counterUC.Reload(ctx))
		require.NoError(t, counterUC.Reload(ctx))

		assert.Equal(t, 1, store.Len())
		assert.Len(t, mapUC.Markers().Markers, 1)
	})
}

func TestCounterUseCase_Nearest(t *testing.T) {
	ctx := context.Background()
	counterUC, counterRepo, _, _ := newCounterFixture(t)

	t.Run("empty store", func(t *testing.T) {
		nearest, _ := counterUC.Nearest(35.7796, -78.6382)
		assert.Nil(t, nearest)
	})

	counterRepo.On("ListCounters", ctx).Return(testCounters(), nil)
	require.NoError(t, counterUC.Reload(ctx))

	t.Run("closest to downtown Raleigh", func(t *testing.T) {
		nearest, dist := counterUC.Nearest(35.7796, -78.6382)
		require.NotNil(t, nearest)
		assert.Equal(t, 102, nearest.CounterID)
		assert.InDelta(t, 8.0, dist, 2.0)
	})

	t.Run("closest to Asheville", func(t *testing.T) {
		nearest, _ := counterUC.Nearest(35.5951, -82.5515)
		require.NotNil(t, nearest)
		assert.Equal(t, 205, nearest.CounterID)
	})
}

func TestCounterUseCase_Get(t *testing.T) {
	ctx := context.Background()
	counterUC, counterRepo, _, _ := newCounterFixture(t)
	counterRepo.On("ListCounters", ctx).Return(testCounters(), nil)
	require.NoError(t, counterUC.Reload(ctx))

	counter, err := counterUC.Get(101)
	require.NoError(t, err)
	assert.Equal(t, "American Tobacco Trail", counter.CounterName)

	_, err = counterUC.Get(404)
	assert.ErrorIs(t, err, errors.ErrCounterNotFound)
}
