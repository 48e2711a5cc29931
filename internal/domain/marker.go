package domain

// MarkerStyle is the visual state of a map marker.
type MarkerStyle struct {
	Color string  `json:"color"`
	Scale float64 `json:"scale"`
}

var (
	// DefaultMarkerStyle is the style every counter marker starts with.
	DefaultMarkerStyle = MarkerStyle{Color: "#3b6bd6", Scale: 1.0}

	// HighlightMarkerStyle marks the selected counter: enlarged and recolored.
	HighlightMarkerStyle = MarkerStyle{Color: "#e8513a", Scale: 1.5}

	// TempMarkerStyle is used for the short-lived geocoding result marker.
	TempMarkerStyle = MarkerStyle{Color: "#2fa35c", Scale: 1.2}
)

// Marker is the per-counter map marker. Exactly one exists per counter;
// markers are created when the store loads and replaced only by a
// wholesale reload.
type Marker struct {
	CounterID int         `json:"counter_id"`
	Label     string      `json:"label"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Style     MarkerStyle `json:"style"`
}

// TempMarker is the transient marker placed for a geocoded address.
type TempMarker struct {
	PlaceName string      `json:"place_name"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Style     MarkerStyle `json:"style"`
}

// Camera is the map viewport position.
type Camera struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
}

// GeocodedPlace is a forward-geocoding hit.
type GeocodedPlace struct {
	PlaceName string  `json:"place_name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
