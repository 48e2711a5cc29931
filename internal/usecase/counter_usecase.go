package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/counter-map/internal/domain"
	"github.com/counter-map/internal/domain/repository"
	"github.com/counter-map/internal/pkg/errors"
	"github.com/counter-map/internal/pkg/utils"
	"github.com/counter-map/internal/repository/memory"
)

// CounterUseCase loads the counter set from the upstream API into the
// in-memory store and keeps the marker layer in sync with it.
type CounterUseCase struct {
	counterRepo repository.CounterRepository
	cacheRepo   repository.CacheRepository // nil when the cache is disabled
	store       *memory.CounterStore
	mapUC       *MapUseCase
	logger      *zap.Logger
	cacheTTL    time.Duration
}

func NewCounterUseCase(
	counterRepo repository.CounterRepository,
	cacheRepo repository.CacheRepository,
	store *memory.CounterStore,
	mapUC *MapUseCase,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *CounterUseCase {
	return &CounterUseCase{
		counterRepo: counterRepo,
		cacheRepo:   cacheRepo,
		store:       store,
		mapUC:       mapUC,
		logger:      logger,
		cacheTTL:    cacheTTL,
	}
}

// Load performs the startup fetch. On failure the store stays empty and
// the map renders no markers; there is no retry.
func (uc *CounterUseCase) Load(ctx context.Context) error {
	return uc.Reload(ctx)
}

// Reload fetches the full counter list and replaces the store and the
// marker set wholesale. With a cache configured it reads through Redis.
func (uc *CounterUseCase) Reload(ctx context.Context) error {
	counters, err := uc.fetchCounters(ctx)
	if err != nil {
		uc.logger.Error("Failed to load counters", zap.Error(err))
		return errors.ErrUpstreamUnavailable
	}

	uc.store.Replace(counters)
	uc.mapUC.SyncMarkers(counters)

	uc.logger.Info("Counter store loaded", zap.Int("counters", len(counters)))
	return nil
}

func (uc *CounterUseCase) fetchCounters(ctx context.Context) ([]domain.Counter, error) {
	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetCounters(ctx)
		if err != nil {
			uc.logger.Warn("Counter cache read failed", zap.Error(err))
		}
		if cached != nil {
			return cached, nil
		}
	}

	counters, err := uc.counterRepo.ListCounters(ctx)
	if err != nil {
		return nil, err
	}

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetCounters(ctx, counters, uc.cacheTTL); err != nil {
			uc.logger.Warn("Counter cache write failed", zap.Error(err))
		}
	}
	return counters, nil
}

// List returns the store snapshot in load order.
func (uc *CounterUseCase) List() []domain.Counter {
	return uc.store.All()
}

// Get returns one counter by id.
func (uc *CounterUseCase) Get(counterID int) (domain.Counter, error) {
	c, ok := uc.store.Get(counterID)
	if !ok {
		return domain.Counter{}, errors.ErrCounterNotFound
	}
	return c, nil
}

// Nearest returns the counter closest to the point, or nil when the
// store is empty. Distance is in kilometers.
func (uc *CounterUseCase) Nearest(lat, lon float64) (*domain.Counter, float64) {
	counters := uc.store.All()
	if len(counters) == 0 {
		return nil, 0
	}

	best := 0
	bestDist := utils.HaversineDistance(lat, lon, counters[0].Latitude, counters[0].Longitude)
	for i := 1; i < len(counters); i++ {
		d := utils.HaversineDistance(lat, lon, counters[i].Latitude, counters[i].Longitude)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}

	c := counters[best]
	return &c, bestDist
}
