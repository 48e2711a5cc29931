package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/counter-map/internal/domain"
	"github.com/counter-map/internal/domain/repository"
)

const (
	countersKey      = "counters:all"
	countsKeyPrefix  = "counts:datastream:"
	geocodeKeyPrefix = "geocode:"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// GetCounters returns the cached counter list, nil on miss.
func (r *cacheRepository) GetCounters(ctx context.Context) ([]domain.Counter, error) {
	data, err := r.Get(ctx, countersKey)
	if err != nil || data == nil {
		return nil, err
	}

	var counters []domain.Counter
	if err := json.Unmarshal(data, &counters); err != nil {
		r.logger.Error("Failed to unmarshal counters from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal counters: %w", err)
	}
	return counters, nil
}

func (r *cacheRepository) SetCounters(ctx context.Context, counters []domain.Counter, ttl time.Duration) error {
	data, err := json.Marshal(counters)
	if err != nil {
		r.logger.Error("Failed to marshal counters", zap.Error(err))
		return fmt.Errorf("marshal counters: %w", err)
	}
	return r.Set(ctx, countersKey, data, ttl)
}

// GetCounts returns cached count records for a datastream, nil on miss.
func (r *cacheRepository) GetCounts(ctx context.Context, datastreamID int) ([]domain.Count, error) {
	key := fmt.Sprintf("%s%d", countsKeyPrefix, datastreamID)
	data, err := r.Get(ctx, key)
	if err != nil || data == nil {
		return nil, err
	}

	var counts []domain.Count
	if err := json.Unmarshal(data, &counts); err != nil {
		r.logger.Error("Failed to unmarshal counts from cache",
			zap.Int("datastream_id", datastreamID), zap.Error(err))
		return nil, fmt.Errorf("unmarshal counts: %w", err)
	}
	return counts, nil
}

func (r *cacheRepository) SetCounts(ctx context.Context, datastreamID int, counts []domain.Count, ttl time.Duration) error {
	key := fmt.Sprintf("%s%d", countsKeyPrefix, datastreamID)
	data, err := json.Marshal(counts)
	if err != nil {
		r.logger.Error("Failed to marshal counts", zap.Error(err))
		return fmt.Errorf("marshal counts: %w", err)
	}
	return r.Set(ctx, key, data, ttl)
}

// GetGeocode returns a cached geocoding result, nil on miss.
func (r *cacheRepository) GetGeocode(ctx context.Context, query string) (*domain.GeocodedPlace, error) {
	data, err := r.Get(ctx, geocodeKey(query))
	if err != nil || data == nil {
		return nil, err
	}

	var place domain.GeocodedPlace
	if err := json.Unmarshal(data, &place); err != nil {
		r.logger.Error("Failed to unmarshal geocode from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal geocode: %w", err)
	}
	return &place, nil
}

func (r *cacheRepository) SetGeocode(ctx context.Context, query string, place *domain.GeocodedPlace, ttl time.Duration) error {
	data, err := json.Marshal(place)
	if err != nil {
		r.logger.Error("Failed to marshal geocode", zap.Error(err))
		return fmt.Errorf("marshal geocode: %w", err)
	}
	return r.Set(ctx, geocodeKey(query), data, ttl)
}

func geocodeKey(query string) string {
	return geocodeKeyPrefix + strings.ToLower(strings.TrimSpace(query))
}
