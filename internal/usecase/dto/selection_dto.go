package dto

import "github.com/counter-map/internal/domain"

// UIRegion names the interactive page regions for outside-click handling.
type UIRegion string

const (
	RegionInfoPanel UIRegion = "info_panel"
	RegionMarker    UIRegion = "marker"
	RegionSearchBox UIRegion = "search_box"
	RegionDownload  UIRegion = "download"
	RegionMap       UIRegion = "map"
)

// Interactive reports whether a click in this region keeps the selection.
func (r UIRegion) Interactive() bool {
	switch r {
	case RegionInfoPanel, RegionMarker, RegionSearchBox, RegionDownload:
		return true
	default:
		return false
	}
}

// SelectRequest selects a counter by id.
type SelectRequest struct {
	CounterID int `json:"counter_id" validate:"required"`
}

// OutsideClickRequest reports where a click landed.
type OutsideClickRequest struct {
	Region UIRegion `json:"region" validate:"required,oneof=info_panel marker search_box download map"`
}

// SelectionResponse is the current selection view.
type SelectionResponse struct {
	Counter      *domain.Counter `json:"counter,omitempty"`
	PanelVisible bool            `json:"panel_visible"`
	DashboardURL string          `json:"dashboard_url,omitempty"`
}
