package dto

import "github.com/counter-map/internal/domain"

// ExportFormat is a metadata export encoding.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

// MetadataExportRequest selects the metadata export encoding.
type MetadataExportRequest struct {
	Format ExportFormat `json:"format" validate:"required,oneof=json csv xlsx"`
}

// ExportFile is a finished download: name, MIME type and payload.
type ExportFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// RawExportBundle is the content of the raw-data archive before zipping,
// keyed by datastream id where per-stream.
type RawExportBundle struct {
	Counter     domain.Counter         `json:"counter"`
	Datastreams []domain.Datastream    `json:"datastreams"`
	CountsByID  map[int][]domain.Count `json:"counts_by_datastream"`
}
