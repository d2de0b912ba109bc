package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool は PostgreSQL 接続プールを生成する
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}
	return pool, nil
}

// schemaSQL は messages テーブルの冪等な作成 SQL。
// migrations/000001_create_messages.up.sql と同内容を保つこと。
const schemaSQL = `
CREATE TABLE IF NOT EXISTS messages (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT,
	company TEXT,
	message TEXT NOT NULL DEFAULT '',
	service TEXT,
	preferred_date TEXT,
	preferred_time TEXT,
	ip_address TEXT,
	user_agent TEXT,
	status TEXT NOT NULL DEFAULT 'unread',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_messages_status ON messages (status);
`

// EnsureSchema creates the messages table and its indexes if they do not exist.
// It is idempotent and safe to run on every startup, so a fresh database can
// serve its first request without a manual migration step.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}
