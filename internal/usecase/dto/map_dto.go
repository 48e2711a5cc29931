package dto

import "github.com/counter-map/internal/domain"

// MarkersResponse is the current marker layer: one marker per counter
// plus the optional temporary geocode marker.
type MarkersResponse struct {
	Markers    []domain.Marker    `json:"markers"`
	TempMarker *domain.TempMarker `json:"temp_marker,omitempty"`
	Total      int                `json:"total"`
}

// CameraRequest moves the map viewport.
type CameraRequest struct {
	Latitude  float64 `json:"latitude" validate:"required"`
	Longitude float64 `json:"longitude" validate:"required"`
	Zoom      float64 `json:"zoom" validate:"omitempty,gte=0,lte=22"`
}

// DashboardLinkResponse is the Superset deep link for a counter.
type DashboardLinkResponse struct {
	CounterID    int    `json:"counter_id"`
	DashboardURL string `json:"dashboard_url"`
}

// GeoJSONGeometry is a point geometry with lon/lat coordinate order.
type GeoJSONGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// GeoJSONFeature is one marker as a GeoJSON feature.
type GeoJSONFeature struct {
	Type       string                 `json:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// GeoJSONResponse is the marker layer as a feature collection, for map
// libraries that consume GeoJSON sources directly.
type GeoJSONResponse struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}

// ToGeoJSON converts the marker layer into a feature collection. The
// temporary marker, when present, becomes a feature with temp=true.
func (r MarkersResponse) ToGeoJSON() GeoJSONResponse {
	features := make([]GeoJSONFeature, 0, len(r.Markers)+1)
	for _, m := range r.Markers {
		features = append(features, GeoJSONFeature{
			Type: "Feature",
			Geometry: GeoJSONGeometry{
				Type:        "Point",
				Coordinates: [2]float64{m.Longitude, m.Latitude},
			},
			Properties: map[string]interface{}{
				"counter_id": m.CounterID,
				"label":      m.Label,
				"color":      m.Style.Color,
				"scale":      m.Style.Scale,
			},
		})
	}
	if r.TempMarker != nil {
		features = append(features, GeoJSONFeature{
			Type: "Feature",
			Geometry: GeoJSONGeometry{
				Type:        "Point",
				Coordinates: [2]float64{r.TempMarker.Longitude, r.TempMarker.Latitude},
			},
			Properties: map[string]interface{}{
				"label": r.TempMarker.PlaceName,
				"color": r.TempMarker.Style.Color,
				"scale": r.TempMarker.Style.Scale,
				"temp":  true,
			},
		})
	}
	return GeoJSONResponse{Type: "FeatureCollection", Features: features}
}
