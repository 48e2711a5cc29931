package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/counter-map/internal/config"
	"github.com/counter-map/internal/domain"
	"github.com/counter-map/internal/domain/repository"
)

type geocoder struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	logger      *zap.Logger
}

// geocodeResponse mirrors the Mapbox Geocoding v5 feature collection.
type geocodeResponse struct {
	Features []struct {
		PlaceName string     `json:"place_name"`
		Center    [2]float64 `json:"center"` // lon, lat
	} `json:"features"`
}

// NewGeocoder creates a forward-geocoding client for the Mapbox API.
func NewGeocoder(cfg *config.MapboxConfig, logger *zap.Logger) repository.GeocodingRepository {
	return &geocoder{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:     cfg.BaseURL,
		accessToken: cfg.AccessToken,
		logger:      logger,
	}
}

// ForwardGeocode resolves query text to the best matching place.
func (g *geocoder) ForwardGeocode(ctx context.Context, query string) (*domain.GeocodedPlace, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	reqURL := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?access_token=%s&limit=1",
		g.baseURL,
		url.PathEscape(query),
		g.accessToken,
	)

	g.logger.Debug("Calling Mapbox Geocoding API", zap.String("query", query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		g.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Error("Failed to execute request", zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		g.logger.Error("Mapbox API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("mapbox API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var geoResp geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&geoResp); err != nil {
		g.logger.Error("Failed to decode response", zap.Error(err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(geoResp.Features) == 0 {
		return nil, fmt.Errorf("no geocoding result for %q", query)
	}

	feature := geoResp.Features[0]
	place := &domain.GeocodedPlace{
		PlaceName: feature.PlaceName,
		Longitude: feature.Center[0],
		Latitude:  feature.Center[1],
	}

	g.logger.Debug("Mapbox Geocoding API call successful",
		zap.String("place_name", place.PlaceName),
		zap.Float64("lat", place.Latitude),
		zap.Float64("lon", place.Longitude))

	return place, nil
}
