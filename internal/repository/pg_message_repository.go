package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirei/backend/internal/model"
)

// PgMessageRepository is the PostgreSQL implementation of MessageRepository.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

// NewPgMessageRepository creates a PgMessageRepository backed by the given pool.
func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

// Ensure PgMessageRepository implements MessageRepository at compile time.
var _ MessageRepository = (*PgMessageRepository)(nil)

// undefinedTable は PostgreSQL の SQLSTATE 42P01（テーブル未作成）
const undefinedTable = "42P01"

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTable
}

// Insert persists a new messages row and populates msg.ID and msg.CreatedAt
// from the database RETURNING clause. If the table does not exist yet the
// schema is created and the insert retried once.
func (r *PgMessageRepository) Insert(ctx context.Context, msg *model.Message) error {
	err := r.insert(ctx, msg)
	if isUndefinedTable(err) {
		if err := EnsureSchema(ctx, r.pool); err != nil {
			return err
		}
		return r.insert(ctx, msg)
	}
	return err
}

func (r *PgMessageRepository) insert(ctx context.Context, msg *model.Message) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO messages
		   (name, email, phone, company, message, service, preferred_date, preferred_time, ip_address, user_agent, status)
		 VALUES
		   ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), $11)
		 RETURNING id, created_at`,
		msg.Name, msg.Email, msg.Phone, msg.Company, msg.Message,
		msg.Service, msg.PreferredDate, msg.PreferredTime, msg.IPAddress, msg.UserAgent,
		msg.Status,
	).Scan(&msg.ID, &msg.CreatedAt)
}

// List returns messages newest-first, filtered by status and free-text search
// and paginated by limit/offset. Status "" or "all" returns all messages.
// A database without the messages table yields an empty result, not an error.
func (r *PgMessageRepository) List(ctx context.Context, opts model.MessageListOptions) ([]*model.Message, error) {
	var conditions []string
	var args []any

	status := strings.TrimSpace(opts.Status)
	if status != "" && status != "all" {
		args = append(args, status)
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}

	if search := strings.TrimSpace(opts.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := strconv.Itoa(len(args))
		conditions = append(conditions,
			"(name ILIKE $"+n+" OR email ILIKE $"+n+" OR message ILIKE $"+n+")")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limitArg := strconv.Itoa(len(args) + 1)
	offsetArg := strconv.Itoa(len(args) + 2)
	args = append(args, opts.Limit, opts.Offset)

	query := `SELECT id, name, email, COALESCE(phone, ''), COALESCE(company, ''), message,
	                 COALESCE(service, ''), COALESCE(preferred_date, ''), COALESCE(preferred_time, ''),
	                 COALESCE(ip_address, ''), COALESCE(user_agent, ''), status, created_at
	          FROM messages ` + where +
		` ORDER BY created_at DESC
		  LIMIT $` + limitArg + ` OFFSET $` + offsetArg

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		if isUndefinedTable(err) {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Company, &m.Message,
			&m.Service, &m.PreferredDate, &m.PreferredTime,
			&m.IPAddress, &m.UserAgent, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// UpdateStatus sets the status of one row. A missing id is a successful no-op.
func (r *PgMessageRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.pool.Exec(ctx, `UPDATE messages SET status = $1 WHERE id = $2`, status, id)
	if isUndefinedTable(err) {
		return nil
	}
	return err
}

// Delete removes one row. A missing id is a successful no-op.
func (r *PgMessageRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if isUndefinedTable(err) {
		return nil
	}
	return err
}

// Stats returns the dashboard counters in a single aggregate query.
// today counts rows since local midnight, week the trailing 7 days.
func (r *PgMessageRepository) Stats(ctx context.Context) (*model.MessageStats, error) {
	var s model.MessageStats
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status = 'unread'),
		        COUNT(*) FILTER (WHERE created_at >= date_trunc('day', now())),
		        COUNT(*) FILTER (WHERE created_at >= now() - interval '7 days')
		 FROM messages`,
	).Scan(&s.Total, &s.Unread, &s.Today, &s.Week)
	if err != nil {
		if isUndefinedTable(err) {
			return &model.MessageStats{}, nil
		}
		return nil, err
	}
	return &s, nil
}
