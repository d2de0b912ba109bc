package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kirei/backend/internal/metrics"
	"github.com/kirei/backend/internal/service"
)

// ExportHandler streams message exports as file downloads.
type ExportHandler struct {
	exportService service.ExportService
	collector     *metrics.Collector
}

// NewExportHandler creates an ExportHandler with the given service.
func NewExportHandler(exportService service.ExportService, collector *metrics.Collector) *ExportHandler {
	return &ExportHandler{exportService: exportService, collector: collector}
}

// Export handles GET /admin/export?format=json|csv&status=.
// The payload is fully built before the first byte is written, so a failed
// export never appears as a complete file.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !requireOperator(w, r) {
		return
	}

	format := r.URL.Query().Get("format")
	status := r.URL.Query().Get("status")

	result, err := h.exportService.Export(r.Context(), format, status)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		if service.IsValidationError(err) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		slog.Error("export failed", "format", format, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "export_failed"})
		return
	}

	if format == "" {
		format = service.FormatJSON
	}
	h.collector.RecordExport(format)

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	_, _ = w.Write(result.Data)
}
