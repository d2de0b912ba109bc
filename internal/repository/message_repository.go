package repository

import (
	"context"

	"github.com/kirei/backend/internal/model"
)

// MessageRepository defines the persistence interface for contact messages.
// It is defined here (in repository) to avoid an import cycle with service.
type MessageRepository interface {
	// Insert persists a new message. msg.ID and msg.CreatedAt are populated
	// by the implementation.
	Insert(ctx context.Context, msg *model.Message) error

	// List returns messages newest-first, filtered and paginated by opts.
	List(ctx context.Context, opts model.MessageListOptions) ([]*model.Message, error)

	// UpdateStatus sets the status of a single message. Unknown ids are a
	// successful no-op so that repeated moderation actions stay idempotent.
	UpdateStatus(ctx context.Context, id int64, status string) error

	// Delete removes a message by id. Unknown ids are a successful no-op.
	Delete(ctx context.Context, id int64) error

	// Stats returns the aggregate counters for the admin dashboard.
	Stats(ctx context.Context) (*model.MessageStats, error)
}
