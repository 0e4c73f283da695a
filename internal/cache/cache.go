package cache

import (
	"context"
	"time"
)

// DeliveryCache records delivery outcomes for cheap stats lookups. It is an
// optimization only; the message table remains the source of truth.
type DeliveryCache interface {
	StoreSent(ctx context.Context, messageID int64, providerID string, sentAt time.Time) error
	IncrSent(ctx context.Context, slug string) error
	IncrFailed(ctx context.Context, slug string) error
}
