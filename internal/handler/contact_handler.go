package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kirei/backend/internal/metrics"
	"github.com/kirei/backend/internal/model"
	"github.com/kirei/backend/internal/service"
)

// ContactHandler handles public contact/booking form submissions.
type ContactHandler struct {
	messageService service.MessageService
	collector      *metrics.Collector
	trustedProxies int
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(messageService service.MessageService, collector *metrics.Collector, trustedProxies int) *ContactHandler {
	return &ContactHandler{
		messageService: messageService,
		collector:      collector,
		trustedProxies: trustedProxies,
	}
}

// submitRequest is the expected JSON body for POST /contact.
// subject names the service line the inquiry concerns; date and time are the
// preferred booking slot as entered on the form.
type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Message string `json:"message"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// Submit handles POST /contact.
// name and email are required; everything else is optional. The response is a
// generic acknowledgement — no internal id is exposed to the public caller.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	msg := &model.Message{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Company:       req.Company,
		Message:       req.Message,
		Service:       req.Subject,
		PreferredDate: req.Date,
		PreferredTime: req.Time,
		IPAddress:     ClientIP(r, h.trustedProxies),
		UserAgent:     r.UserAgent(),
	}

	if err := h.messageService.Submit(r.Context(), msg); err != nil {
		if service.IsValidationError(err) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		// Store failures are logged in full server-side; the public caller
		// only sees a generic message.
		slog.Error("contact submission failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "submit_failed"})
		return
	}

	h.collector.RecordSubmission()
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
