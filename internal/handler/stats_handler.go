package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kirei/backend/internal/service"
)

// StatsHandler serves the admin dashboard counters.
type StatsHandler struct {
	messageService service.MessageService
}

// NewStatsHandler creates a StatsHandler with the given service.
func NewStatsHandler(messageService service.MessageService) *StatsHandler {
	return &StatsHandler{messageService: messageService}
}

// Stats handles GET /admin/stats. The service bounds the aggregation with a
// timeout and degrades to zero counters, so this endpoint always answers.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !requireOperator(w, r) {
		return
	}

	stats := h.messageService.Stats(r.Context())
	_ = json.NewEncoder(w).Encode(stats)
}
