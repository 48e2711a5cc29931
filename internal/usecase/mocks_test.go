package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/counter-map/internal/domain"
)

// MockCounterRepository is a mock of CounterRepository
type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) ListCounters(ctx context.Context) ([]domain.Counter, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Counter), args.Error(1)
}

func (m *MockCounterRepository) ListDatastreams(ctx context.Context, counterID int) ([]domain.Datastream, error) {
	args := m.Called(ctx, counterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Datastream), args.Error(1)
}

func (m *MockCounterRepository) ListCounts(ctx context.Context, datastreamID int) ([]domain.Count, error) {
	args := m.Called(ctx, datastreamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Count), args.Error(1)
}

// MockGeocodingRepository is a mock of GeocodingRepository
type MockGeocodingRepository struct {
	mock.Mock
}

func (m *MockGeocodingRepository) ForwardGeocode(ctx context.Context, query string) (*domain.GeocodedPlace, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeocodedPlace), args.Error(1)
}
