package errors

import "net/http"

var (
	ErrCounterNotFound = New(
		"COUNTER_NOT_FOUND",
		"Counter not found",
		http.StatusNotFound,
	)

	ErrDatastreamNotFound = New(
		"DATASTREAM_NOT_FOUND",
		"Datastream not found",
		http.StatusNotFound,
	)

	ErrNoSelection = New(
		"NO_SELECTION",
		"No counter is currently selected",
		http.StatusConflict,
	)

	ErrExportInProgress = New(
		"EXPORT_IN_PROGRESS",
		"A raw data export is already running",
		http.StatusConflict,
	)

	ErrUnknownExportFormat = New(
		"UNKNOWN_EXPORT_FORMAT",
		"Unknown export format requested",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrUpstreamUnavailable = New(
		"UPSTREAM_UNAVAILABLE",
		"Upstream counts API request failed",
		http.StatusBadGateway,
	)

	ErrGeocodingFailed = New(
		"GEOCODING_FAILED",
		"Address geocoding failed",
		http.StatusBadGateway,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
