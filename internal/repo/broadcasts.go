package repo

import (
	"context"

	"mailcast/internal/model"
)

// FanOut reports what one broadcast creation inserted.
type FanOut struct {
	BroadcastID int64
	EmailID     int64
	Inserted    int64
}

// BroadcastStats summarizes delivery progress for one broadcast slug.
type BroadcastStats struct {
	Slug    string `json:"slug"`
	Pending int64  `json:"pending"`
	Sent    int64  `json:"sent"`
	Failed  int64  `json:"failed"`
}

// BroadcastRepository owns the fan-out write transaction: the email, the
// broadcast and the full message batch are created atomically or not at all.
type BroadcastRepository interface {
	CreateBroadcast(ctx context.Context, doc model.Document, replyTo string) (FanOut, error)
	Stats(ctx context.Context, slug string) (BroadcastStats, error)
}
