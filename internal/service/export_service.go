package service

import "context"

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ExportResult is a fully built download payload. The whole body is assembled
// in memory before being sent so a failure never appears as a complete file.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService serializes a filtered message set for offline use.
// It is strictly read-only against the store.
type ExportService interface {
	// Export builds a CSV or JSON download of messages matching the optional
	// status filter. An empty format defaults to JSON; other unknown formats
	// are rejected with ErrInvalidFormat.
	Export(ctx context.Context, format, status string) (*ExportResult, error)
}
