// Package docs Counter Map Service API.
//
// Service behind the North Carolina pedestrian and bicycle counter map.
// Keeps the statewide counter list in memory, drives the map markers and
// camera, and serves search, selection and export operations.
//
// Main capabilities:
// - Counter store loaded from the upstream counts API, with optional Redis cache
// - Incremental search over counter metadata with an address geocoding fallback
// - Single-selection state with marker highlighting and dashboard deep links
// - Metadata export (JSON, CSV, XLSX) and a raw count ZIP archive per counter
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//	- text/csv
//	- application/zip
//
// swagger:meta
package docs
