package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/kirei/backend/internal/model"
	"github.com/kirei/backend/internal/repository"
)

// statsTimeout bounds the dashboard aggregation so a slow database never
// blocks the admin page load.
const statsTimeout = 5 * time.Second

// messageServiceImpl is the production implementation of MessageService.
type messageServiceImpl struct {
	repo repository.MessageRepository
}

// NewMessageService creates a MessageService backed by the given repository.
func NewMessageService(repo repository.MessageRepository) MessageService {
	return &messageServiceImpl{repo: repo}
}

// Submit validates the required fields and persists the submission with
// status unread. Optional fields are stored as given; message bodies are not
// sanitized — injection safety comes from parameterized queries.
func (s *messageServiceImpl) Submit(ctx context.Context, msg *model.Message) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	if msg.Name == "" {
		return ErrNameRequired
	}
	if msg.Email == "" {
		return ErrEmailRequired
	}
	msg.Status = model.StatusUnread
	return s.repo.Insert(ctx, msg)
}

// List returns messages according to the given filter/pagination options.
func (s *messageServiceImpl) List(ctx context.Context, opts model.MessageListOptions) ([]*model.Message, error) {
	return s.repo.List(ctx, opts)
}

// UpdateStatus transitions a message. The status machine permits any move
// between unread, read and archived, so only the value itself is validated.
func (s *messageServiceImpl) UpdateStatus(ctx context.Context, id int64, status string) error {
	if !model.ValidStatus(status) {
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Delete removes a message in any status.
func (s *messageServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Stats returns the dashboard counters, degrading to zeros on error or
// timeout. The failure is logged server-side only.
func (s *messageServiceImpl) Stats(ctx context.Context) *model.MessageStats {
	ctx, cancel := context.WithTimeout(ctx, statsTimeout)
	defer cancel()

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			slog.Warn("stats aggregation timed out", "timeout", statsTimeout)
		} else {
			slog.Error("stats aggregation failed", "error", err)
		}
		return &model.MessageStats{}
	}
	return stats
}
