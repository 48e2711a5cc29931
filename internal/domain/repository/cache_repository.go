package repository

import (
	"context"
	"time"

	"github.com/counter-map/internal/domain"
)

// CacheRepository is the read-through cache in front of the upstream API
// and the geocoder. A nil byte slice / nil pointer with a nil error
// means cache miss.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	GetCounters(ctx context.Context) ([]domain.Counter, error)
	SetCounters(ctx context.Context, counters []domain.Counter, ttl time.Duration) error

	GetCounts(ctx context.Context, datastreamID int) ([]domain.Count, error)
	SetCounts(ctx context.Context, datastreamID int, counts []domain.Count, ttl time.Duration) error

	GetGeocode(ctx context.Context, query string) (*domain.GeocodedPlace, error)
	SetGeocode(ctx context.Context, query string, place *domain.GeocodedPlace, ttl time.Duration) error
}
