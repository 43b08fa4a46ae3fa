package database

import (
	"context"
	"fmt"
)

const ticketSchema = `
CREATE TABLE IF NOT EXISTS tickets (
	id           UUID PRIMARY KEY,
	booking_id   BIGINT NOT NULL UNIQUE,
	owner_key    TEXT NOT NULL,
	session_id   INTEGER NOT NULL,
	title        TEXT NOT NULL DEFAULT '',
	cinema       TEXT NOT NULL DEFAULT '',
	show_date    TEXT NOT NULL DEFAULT '',
	show_time    TEXT NOT NULL DEFAULT '',
	poster_image TEXT NOT NULL DEFAULT '',
	seats        JSONB NOT NULL,
	total_price  NUMERIC(12,2) NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_tickets_owner ON tickets (owner_key, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_tickets_session ON tickets (session_id);
`

// EnsureSchema creates the ticket store tables when they are missing.
func EnsureSchema(ctx context.Context, db PgxIface) error {
	if _, err := db.Exec(ctx, ticketSchema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
