package repo

import "context"

// ContactRepository resolves a targeting filter to its current recipient
// count. Read-only; the fan-out transaction resolves the same filter again
// inside the transaction so the inserted set matches the store at commit
// time.
type ContactRepository interface {
	CountAudience(ctx context.Context, audience string) (int64, error)
}
