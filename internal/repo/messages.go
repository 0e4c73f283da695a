package repo

import (
	"context"
	"time"

	"mailcast/internal/model"
)

// MessageRepository is the delivery worker's view of the message store.
// FetchReady must only return rows satisfying the ready-to-send predicate;
// the Mark* updates are conditional on the row still being pending so a
// racing worker produces one winner and one no-op.
type MessageRepository interface {
	FetchReady(ctx context.Context, limit int) ([]model.Message, error)
	MarkSent(ctx context.Context, id int64, sentAt time.Time) error
	MarkFailed(ctx context.Context, id int64, reason string) error
	ListSent(ctx context.Context, limit, offset int) ([]model.Message, error)
}
