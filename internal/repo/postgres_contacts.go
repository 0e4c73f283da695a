package repo

import (
	"context"
	"database/sql"

	"mailcast/internal/model"
)

type PostgresContactRepo struct {
	db *sql.DB
}

func NewPostgresContactRepo(db *sql.DB) *PostgresContactRepo {
	return &PostgresContactRepo{db: db}
}

// CountAudience counts subscribed contacts matching the filter. An unknown
// tag yields zero, not an error.
func (r *PostgresContactRepo) CountAudience(ctx context.Context, audience string) (int64, error) {
	var count int64

	if audience == model.AudienceAll {
		err := r.db.QueryRowContext(ctx, `
			SELECT count(*) FROM mail.contacts
			WHERE subscribed = true
		`).Scan(&count)
		return count, err
	}

	err := r.db.QueryRowContext(ctx, `
		SELECT count(*)
		FROM mail.contacts
		INNER JOIN mail.tagged ON mail.tagged.contact_id = mail.contacts.id
		INNER JOIN mail.tags ON mail.tags.id = mail.tagged.tag_id
		WHERE mail.contacts.subscribed = true AND mail.tags.slug = $1
	`, audience).Scan(&count)
	return count, err
}
