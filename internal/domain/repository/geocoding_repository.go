package repository

import (
	"context"

	"github.com/counter-map/internal/domain"
)

// GeocodingRepository resolves free-text queries to places.
type GeocodingRepository interface {
	// ForwardGeocode resolves query text to a place name and coordinates.
	ForwardGeocode(ctx context.Context, query string) (*domain.GeocodedPlace, error)
}
