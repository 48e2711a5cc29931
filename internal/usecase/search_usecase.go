package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/counter-map/internal/domain"
	"github.com/counter-map/internal/domain/repository"
	"github.com/counter-map/internal/pkg/errors"
	"github.com/counter-map/internal/repository/memory"
	"github.com/counter-map/internal/usecase/dto"
)

// SearchUseCase filters the counter store against free-text queries and
// falls back to address geocoding for queries that look like places.
type SearchUseCase struct {
	store         *memory.CounterStore
	geocodeRepo   repository.GeocodingRepository
	cacheRepo     repository.CacheRepository // nil when the cache is disabled
	counterUC     *CounterUseCase
	mapUC         *MapUseCase
	logger        *zap.Logger
	minAddressLen int
	geocodeTTL    time.Duration
}

func NewSearchUseCase(
	store *memory.CounterStore,
	geocodeRepo repository.GeocodingRepository,
	cacheRepo repository.CacheRepository,
	counterUC *CounterUseCase,
	mapUC *MapUseCase,
	logger *zap.Logger,
	minAddressLen int,
	geocodeTTL time.Duration,
) *SearchUseCase {
	return &SearchUseCase{
		store:         store,
		geocodeRepo:   geocodeRepo,
		cacheRepo:     cacheRepo,
		counterUC:     counterUC,
		mapUC:         mapUC,
		logger:        logger,
		minAddressLen: minAddressLen,
		geocodeTTL:    geocodeTTL,
	}
}

// Query filters the store: a record is included when any of name, id,
// notes or vendor matches the query (case-insensitive substring, OR
// semantics). Store order is preserved. Queries that could be an
// address additionally get the synthetic address entry appended.
func (uc *SearchUseCase) Query(query string) dto.SearchResponse {
	query = strings.TrimSpace(query)
	if query == "" {
		return dto.SearchResponse{Results: []dto.SearchResult{}}
	}

	needle := strings.ToLower(query)
	var results []dto.SearchResult

	for _, c := range uc.store.All() {
		if counterMatches(c, needle) {
			counter := c
			results = append(results, dto.SearchResult{
				Kind:    dto.ResultKindCounter,
				Label:   c.CounterName,
				Counter: &counter,
			})
		}
	}

	if uc.addressCandidate(query) {
		results = append(results, dto.SearchResult{
			Kind:  dto.ResultKindAddress,
			Label: "Search \"" + query + "\" as address",
			Query: query,
		})
	}

	return dto.SearchResponse{Results: results, Total: len(results)}
}

func counterMatches(c domain.Counter, needle string) bool {
	if strings.Contains(strings.ToLower(c.CounterName), needle) {
		return true
	}
	if strings.Contains(strconv.Itoa(c.CounterID), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Notes()), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Vendor), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(c.CounterCode), needle)
}

// addressCandidate requires at least one letter and the minimum length.
func (uc *SearchUseCase) addressCandidate(query string) bool {
	runes := []rune(query)
	if len(runes) < uc.minAddressLen {
		return false
	}
	for _, r := range runes {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// Geocode resolves the query through Mapbox (Redis read-through when
// configured), drops the temporary marker, moves the camera there and
// reports the closest counter.
func (uc *SearchUseCase) Geocode(ctx context.Context, query string) (*dto.GeocodeResponse, error) {
	place, err := uc.lookupPlace(ctx, query)
	if err != nil {
		uc.logger.Error("Geocoding failed", zap.String("query", query), zap.Error(err))
		return nil, errors.ErrGeocodingFailed
	}

	uc.mapUC.PlaceTempMarker(*place)
	uc.mapUC.FlyTo(place.Latitude, place.Longitude, 13)

	resp := &dto.GeocodeResponse{Place: *place}
	if nearest, dist := uc.counterUC.Nearest(place.Latitude, place.Longitude); nearest != nil {
		resp.NearestCounter = nearest
		resp.DistanceKm = dist
	}
	return resp, nil
}

func (uc *SearchUseCase) lookupPlace(ctx context.Context, query string) (*domain.GeocodedPlace, error) {
	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetGeocode(ctx, query)
		if err != nil {
			uc.logger.Warn("Geocode cache read failed", zap.Error(err))
		}
		if cached != nil {
			return cached, nil
		}
	}

	place, err := uc.geocodeRepo.ForwardGeocode(ctx, query)
	if err != nil {
		return nil, err
	}

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetGeocode(ctx, query, place, uc.geocodeTTL); err != nil {
			uc.logger.Warn("Geocode cache write failed", zap.Error(err))
		}
	}
	return place, nil
}
