package repo

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS mail`,

	`CREATE TABLE IF NOT EXISTS mail.contacts (
		id         BIGSERIAL PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL DEFAULT '',
		subscribed BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS mail.tags (
		id         BIGSERIAL PRIMARY KEY,
		slug       TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS mail.tagged (
		contact_id BIGINT NOT NULL REFERENCES mail.contacts (id),
		tag_id     BIGINT NOT NULL REFERENCES mail.tags (id),
		PRIMARY KEY (contact_id, tag_id)
	)`,

	`CREATE TABLE IF NOT EXISTS mail.emails (
		id          BIGSERIAL PRIMARY KEY,
		slug        TEXT NOT NULL,
		subject     TEXT NOT NULL,
		preview     TEXT NOT NULL DEFAULT '',
		html        TEXT NOT NULL,
		delay_hours INTEGER NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS mail.broadcasts (
		id          BIGSERIAL PRIMARY KEY,
		email_id    BIGINT NOT NULL REFERENCES mail.emails (id),
		status      TEXT NOT NULL DEFAULT 'pending',
		name        TEXT NOT NULL,
		slug        TEXT NOT NULL,
		reply_to    TEXT NOT NULL,
		send_to_tag TEXT NOT NULL DEFAULT '*',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS mail.messages (
		id         BIGSERIAL PRIMARY KEY,
		source     TEXT NOT NULL DEFAULT 'broadcast',
		slug       TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'pending',
		send_to    TEXT NOT NULL,
		send_from  TEXT NOT NULL,
		subject    TEXT NOT NULL,
		html       TEXT NOT NULL,
		send_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		sent_at    TIMESTAMPTZ,
		last_error TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS messages_ready_idx
		ON mail.messages (send_at, id)
		WHERE status = 'pending'`,

	`CREATE INDEX IF NOT EXISTS messages_slug_idx
		ON mail.messages (slug)`,
}

// EnsureSchema applies the idempotent DDL for the mail schema. Safe to run on
// every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
