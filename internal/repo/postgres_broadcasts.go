package repo

import (
	"context"
	"database/sql"

	"mailcast/internal/model"
)

type PostgresBroadcastRepo struct {
	db *sql.DB
}

func NewPostgresBroadcastRepo(db *sql.DB) *PostgresBroadcastRepo {
	return &PostgresBroadcastRepo{db: db}
}

// CreateBroadcast persists the email, the broadcast and one pending message
// per matching recipient in a single transaction. The audience is resolved by
// the INSERT..SELECT itself, so the recipient snapshot is consistent with the
// insert. Any failure rolls the whole thing back.
func (r *PostgresBroadcastRepo) CreateBroadcast(ctx context.Context, doc model.Document, replyTo string) (FanOut, error) {
	email, err := model.NewEmail(doc)
	if err != nil {
		return FanOut{}, err
	}
	broadcast := model.BroadcastFromDocument(doc, replyTo)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return FanOut{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var out FanOut

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO mail.emails (slug, subject, preview, html, delay_hours)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, email.Slug, email.Subject, email.Preview, email.HTML, email.DelayHours).Scan(&out.EmailID); err != nil {
		return FanOut{}, err
	}

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO mail.broadcasts (email_id, status, name, slug, reply_to, send_to_tag)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, out.EmailID, broadcast.Status, broadcast.Name, broadcast.Slug,
		broadcast.ReplyTo, broadcast.SendToTag).Scan(&out.BroadcastID); err != nil {
		return FanOut{}, err
	}

	insert := `
		INSERT INTO mail.messages (source, slug, status, send_to, send_from, subject, html, send_at)
		SELECT 'broadcast', $1, 'pending', mail.contacts.email, $2, $3, $4,
		       now() + ($5 * interval '1 hour')
		FROM mail.contacts
	`

	var res sql.Result
	if broadcast.SendToTag == model.AudienceAll {
		res, err = tx.ExecContext(ctx, insert+`
			WHERE subscribed = true
		`, email.Slug, replyTo, email.Subject, email.HTML, email.DelayHours)
	} else {
		res, err = tx.ExecContext(ctx, insert+`
			INNER JOIN mail.tagged ON mail.tagged.contact_id = mail.contacts.id
			INNER JOIN mail.tags ON mail.tags.id = mail.tagged.tag_id
			WHERE subscribed = true AND mail.tags.slug = $6
		`, email.Slug, replyTo, email.Subject, email.HTML, email.DelayHours, broadcast.SendToTag)
	}
	if err != nil {
		return FanOut{}, err
	}

	out.Inserted, err = res.RowsAffected()
	if err != nil {
		return FanOut{}, err
	}

	if err := tx.Commit(); err != nil {
		return FanOut{}, err
	}
	return out, nil
}

// Stats aggregates message statuses for a broadcast slug.
func (r *PostgresBroadcastRepo) Stats(ctx context.Context, slug string) (BroadcastStats, error) {
	stats := BroadcastStats{Slug: slug}

	err := r.db.QueryRowContext(ctx, `
		SELECT
			count(*) FILTER (WHERE status = 'pending'),
			count(*) FILTER (WHERE status = 'sent'),
			count(*) FILTER (WHERE status = 'failed')
		FROM mail.messages
		WHERE slug = $1 AND source = 'broadcast'
	`, slug).Scan(&stats.Pending, &stats.Sent, &stats.Failed)
	return stats, err
}
