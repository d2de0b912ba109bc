package service

import (
	"context"

	"github.com/kirei/backend/internal/model"
)

// MessageService defines the business logic for contact/booking submissions
// and their moderation lifecycle.
type MessageService interface {
	// Submit validates and stores a new submission. msg.ID and msg.CreatedAt
	// are populated by the implementation; the status is forced to unread.
	Submit(ctx context.Context, msg *model.Message) error

	// List returns messages according to the given filter/pagination options.
	List(ctx context.Context, opts model.MessageListOptions) ([]*model.Message, error)

	// UpdateStatus transitions a message to the given status. Statuses outside
	// unread/read/archived are rejected with ErrInvalidStatus. Unknown ids
	// succeed as a no-op.
	UpdateStatus(ctx context.Context, id int64, status string) error

	// Delete removes a message in any status. Unknown ids succeed as a no-op.
	Delete(ctx context.Context, id int64) error

	// Stats returns the dashboard counters. It never fails: on store error or
	// timeout it returns zero counters so a slow aggregation cannot block or
	// blank the admin page.
	Stats(ctx context.Context) *model.MessageStats
}
