package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kirei/backend/internal/model"
	"github.com/kirei/backend/internal/service"
	"github.com/kirei/backend/pkg/auth"
)

// MessageHandler handles the admin moderation endpoints for submitted messages.
type MessageHandler struct {
	messageService service.MessageService
}

// NewMessageHandler creates a MessageHandler with the given service.
func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// requireOperator rejects with 401 unless the request context carries an
// authenticated operator. Returns false when the response is already written.
func requireOperator(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := auth.OperatorFromContext(r.Context()); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return false
	}
	return true
}

// listResponse is the JSON response for GET /admin/messages.
type listResponse struct {
	Success  bool             `json:"success"`
	Messages []*model.Message `json:"messages"`
	Count    int              `json:"count"`
}

// List handles GET /admin/messages.
// Supports query params: status (all/unread/read/archived), search, limit, offset.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !requireOperator(w, r) {
		return
	}

	opts := model.MessageListOptions{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
		Limit:  50,
		Offset: 0,
	}

	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			opts.Limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	messages, err := h.messageService.List(r.Context(), opts)
	if err != nil {
		slog.Error("message list failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}

	// Return [] not null for empty lists
	if messages == nil {
		messages = []*model.Message{}
	}

	_ = json.NewEncoder(w).Encode(listResponse{
		Success:  true,
		Messages: messages,
		Count:    len(messages),
	})
}

// updateStatusRequest is the expected JSON body for PATCH /admin/messages.
type updateStatusRequest struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /admin/messages.
// Updating a nonexistent id reports success: moderation actions are idempotent.
func (h *MessageHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !requireOperator(w, r) {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}
	if req.ID <= 0 {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "id_required"})
		return
	}

	if err := h.messageService.UpdateStatus(r.Context(), req.ID, req.Status); err != nil {
		if service.IsValidationError(err) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_status"})
			return
		}
		slog.Error("status update failed", "id", req.ID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "update_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// Delete handles DELETE /admin/messages?id=.
// Deleting a nonexistent id reports success, same idempotence rule as above.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !requireOperator(w, r) {
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "id_required"})
		return
	}

	if err := h.messageService.Delete(r.Context(), id); err != nil {
		slog.Error("message delete failed", "id", id, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "delete_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
