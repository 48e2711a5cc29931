package dto

import "github.com/counter-map/internal/domain"

// SearchResultKind distinguishes counter hits from the synthetic
// "search as address" entry.
type SearchResultKind string

const (
	ResultKindCounter SearchResultKind = "counter"
	ResultKindAddress SearchResultKind = "address"
)

// SearchRequest is the immediate (non-debounced) search query.
type SearchRequest struct {
	Query string `json:"q" validate:"required"`
}

// SearchResult is one entry of the result list.
type SearchResult struct {
	Kind    SearchResultKind `json:"kind"`
	Label   string           `json:"label"`
	Counter *domain.Counter  `json:"counter,omitempty"`
	Query   string           `json:"query,omitempty"` // address entries carry the raw query
}

// SearchResponse is the result list for one query.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
}

// SessionInputRequest is one keystroke worth of search bar text.
type SessionInputRequest struct {
	Text string `json:"text"`
}

// SessionKeyRequest is a keyboard event against the result list.
type SessionKeyRequest struct {
	Key string `json:"key" validate:"required,oneof=up down enter escape"`
}

// SessionStateResponse is the current search session view.
type SessionStateResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Cursor  int            `json:"cursor"`
	Open    bool           `json:"open"`
}

// GeocodeRequest asks to resolve free text as an address.
type GeocodeRequest struct {
	Query string `json:"query" validate:"required,min=1"`
}

// GeocodeResponse carries the resolved place and, when the store is
// non-empty, the counter closest to it.
type GeocodeResponse struct {
	Place          domain.GeocodedPlace `json:"place"`
	NearestCounter *domain.Counter      `json:"nearest_counter,omitempty"`
	DistanceKm     float64              `json:"distance_km,omitempty"`
}
