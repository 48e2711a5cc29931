package usecase

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/counter-map/internal/domain"
	"github.com/counter-map/internal/usecase/dto"
)

// Default viewport: roughly central North Carolina.
var defaultCamera = domain.Camera{Latitude: 35.5, Longitude: -79.2, Zoom: 7}

// MapUseCase owns the map view state: one marker per counter, the
// optional temporary geocode marker, and the camera. It guarantees
// that at most one marker carries the highlight style.
type MapUseCase struct {
	mu           sync.Mutex
	markers      []domain.Marker
	byID         map[int]int
	temp         *domain.TempMarker
	tempTimer    *time.Timer
	camera       domain.Camera
	tempTTL      time.Duration
	dashboardURL string
	logger       *zap.Logger
}

// NewMapUseCase creates the map view state holder. dashboardBaseURL is
// the Superset instance the double-click deep link points at.
func NewMapUseCase(dashboardBaseURL string, tempTTL time.Duration, logger *zap.Logger) *MapUseCase {
	return &MapUseCase{
		byID:         make(map[int]int),
		camera:       defaultCamera,
		tempTTL:      tempTTL,
		dashboardURL: dashboardBaseURL,
		logger:       logger,
	}
}

// SyncMarkers rebuilds the marker set 1:1 from the counter set. All
// markers start in the default style; any previous highlight is gone
// because the old set is discarded wholesale.
func (uc *MapUseCase) SyncMarkers(counters []domain.Counter) {
	markers := make([]domain.Marker, len(counters))
	byID := make(map[int]int, len(counters))
	for i, c := range counters {
		markers[i] = domain.Marker{
			CounterID: c.CounterID,
			Label:     c.CounterName,
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			Style:     domain.DefaultMarkerStyle,
		}
		byID[c.CounterID] = i
	}

	uc.mu.Lock()
	uc.markers = markers
	uc.byID = byID
	uc.mu.Unlock()

	uc.logger.Info("Markers synced", zap.Int("count", len(markers)))
}

// Markers returns a snapshot of the marker layer.
func (uc *MapUseCase) Markers() dto.MarkersResponse {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	out := make([]domain.Marker, len(uc.markers))
	copy(out, uc.markers)

	var temp *domain.TempMarker
	if uc.temp != nil {
		t := *uc.temp
		temp = &t
	}

	return dto.MarkersResponse{
		Markers:    out,
		TempMarker: temp,
		Total:      len(out),
	}
}

// Highlight resets every marker to the default style and then applies
// the highlight style to the target, so two markers can never be
// highlighted at once.
func (uc *MapUseCase) Highlight(counterID int) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	for i := range uc.markers {
		uc.markers[i].Style = domain.DefaultMarkerStyle
	}

	idx, ok := uc.byID[counterID]
	if !ok {
		return false
	}
	uc.markers[idx].Style = domain.HighlightMarkerStyle
	return true
}

// ResetStyles puts every marker back into the default style.
func (uc *MapUseCase) ResetStyles() {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	for i := range uc.markers {
		uc.markers[i].Style = domain.DefaultMarkerStyle
	}
}

// FlyTo moves the camera. Zoom 0 keeps the current zoom.
func (uc *MapUseCase) FlyTo(lat, lon, zoom float64) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.camera.Latitude = lat
	uc.camera.Longitude = lon
	if zoom > 0 {
		uc.camera.Zoom = zoom
	}
}

// Camera returns the current viewport.
func (uc *MapUseCase) Camera() domain.Camera {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.camera
}

// PlaceTempMarker drops the temporary geocode marker and schedules its
// removal after the configured TTL. A new placement replaces the old
// marker and its removal timer.
func (uc *MapUseCase) PlaceTempMarker(place domain.GeocodedPlace) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.tempTimer != nil {
		uc.tempTimer.Stop()
	}

	uc.temp = &domain.TempMarker{
		PlaceName: place.PlaceName,
		Latitude:  place.Latitude,
		Longitude: place.Longitude,
		Style:     domain.TempMarkerStyle,
	}
	uc.tempTimer = time.AfterFunc(uc.tempTTL, uc.ClearTempMarker)

	uc.logger.Debug("Temporary marker placed",
		zap.String("place", place.PlaceName),
		zap.Duration("ttl", uc.tempTTL))
}

// ClearTempMarker removes the temporary marker immediately.
func (uc *MapUseCase) ClearTempMarker() {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.tempTimer != nil {
		uc.tempTimer.Stop()
		uc.tempTimer = nil
	}
	uc.temp = nil
}

// DashboardLink builds the Superset deep link for a counter with the
// counter id URL-encoded as native filter state.
func (uc *MapUseCase) DashboardLink(counterID int) string {
	filter := fmt.Sprintf("(counter_id:%d)", counterID)
	return fmt.Sprintf("%s/superset/dashboard/counters/?native_filters=%s",
		uc.dashboardURL, url.QueryEscape(filter))
}
