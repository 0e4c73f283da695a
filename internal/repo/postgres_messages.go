package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mailcast/internal/model"
)

type PostgresMessageRepo struct {
	db *sql.DB
}

func NewPostgresMessageRepo(db *sql.DB) *PostgresMessageRepo {
	return &PostgresMessageRepo{db: db}
}

// FetchReady selects due pending messages with every transport-required field
// populated. Rows failing the predicate are invisible to the worker
// regardless of status.
func (r *PostgresMessageRepo) FetchReady(ctx context.Context, limit int) ([]model.Message, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be > 0")
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source, slug, status, send_to, send_from, subject, html,
		       send_at, sent_at, last_error, created_at
		FROM mail.messages
		WHERE status = 'pending'
		  AND send_at <= now()
		  AND send_to <> ''
		  AND send_from <> ''
		  AND subject <> ''
		  AND html <> ''
		ORDER BY id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// MarkSent transitions a message to sent, conditioned on it still being
// pending. Losing the race is not an error; the row simply stays untouched.
func (r *PostgresMessageRepo) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE mail.messages
		SET status = 'sent',
		    sent_at = $2
		WHERE id = $1 AND status = 'pending'
	`, id, sentAt.UTC())
	return err
}

// MarkFailed is terminal: the worker only calls it for permanent rejections.
// Transient failures leave the row pending so the next tick retries it.
func (r *PostgresMessageRepo) MarkFailed(ctx context.Context, id int64, reason string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE mail.messages
		SET status = 'failed',
		    last_error = $2
		WHERE id = $1 AND status = 'pending'
	`, id, reason)
	return err
}

func (r *PostgresMessageRepo) ListSent(ctx context.Context, limit, offset int) ([]model.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source, slug, status, send_to, send_from, subject, html,
		       send_at, sent_at, last_error, created_at
		FROM mail.messages
		WHERE status = 'sent'
		ORDER BY sent_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMessage(rows *sql.Rows) (model.Message, error) {
	var (
		m       model.Message
		status  string
		sentAt  sql.NullTime
		lastErr sql.NullString
	)

	if err := rows.Scan(
		&m.ID,
		&m.Source,
		&m.Slug,
		&status,
		&m.SendTo,
		&m.SendFrom,
		&m.Subject,
		&m.HTML,
		&m.SendAt,
		&sentAt,
		&lastErr,
		&m.CreatedAt,
	); err != nil {
		return model.Message{}, err
	}

	m.Status = model.Status(status)
	if sentAt.Valid {
		t := sentAt.Time
		m.SentAt = &t
	}
	if lastErr.Valid {
		s := lastErr.String
		m.LastError = &s
	}
	return m, nil
}
