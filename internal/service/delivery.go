package service

import (
	"context"
	"log/slog"
	"time"

	"mailcast/internal/cache"
	"mailcast/internal/model"
	"mailcast/internal/repo"
)

// Delivery is the consumer side of the message table: each tick it fetches a
// bounded batch of ready messages, hands it to the transport and records
// per-message outcomes. Errors are logged, never fatal; anything still
// pending is re-selected on the next tick.
type Delivery struct {
	messages  repo.MessageRepository
	sender    *Sender
	cache     cache.DeliveryCache
	batchSize int
	log       *slog.Logger
}

func NewDelivery(messages repo.MessageRepository, mc MailClient, dc cache.DeliveryCache, batchSize int, log *slog.Logger) *Delivery {
	if log == nil {
		log = slog.Default()
	}
	d := &Delivery{
		messages:  messages,
		cache:     dc,
		batchSize: batchSize,
		log:       log,
	}
	d.sender = NewSender(mc, log).WithHooks(d.recordSent, d.recordFailed)
	return d
}

// Tick runs one poll cycle. Safe to call from the scheduler and from tests.
func (d *Delivery) Tick(ctx context.Context) {
	msgs, err := d.messages.FetchReady(ctx, d.batchSize)
	if err != nil {
		d.log.Error("failed to fetch ready messages", "err", err)
		return
	}
	if len(msgs) == 0 {
		return
	}

	sent, failed, deferred := d.sender.ProcessBatch(ctx, msgs)

	d.log.Info("delivery tick completed",
		"batch", len(msgs),
		"sent", sent,
		"failed", failed,
		"deferred", deferred,
	)
}

func (d *Delivery) recordSent(ctx context.Context, m model.Message, providerID string, sentAt time.Time) error {
	if err := d.messages.MarkSent(ctx, m.ID, sentAt); err != nil {
		return err
	}

	if d.cache != nil {
		if err := d.cache.StoreSent(ctx, m.ID, providerID, sentAt); err != nil {
			d.log.Warn("failed to cache sent receipt", "id", m.ID, "err", err)
		}
		if err := d.cache.IncrSent(ctx, m.Slug); err != nil {
			d.log.Warn("failed to bump sent counter", "slug", m.Slug, "err", err)
		}
	}
	return nil
}

func (d *Delivery) recordFailed(ctx context.Context, m model.Message, reason string) error {
	if err := d.messages.MarkFailed(ctx, m.ID, reason); err != nil {
		return err
	}

	if d.cache != nil {
		if err := d.cache.IncrFailed(ctx, m.Slug); err != nil {
			d.log.Warn("failed to bump failed counter", "slug", m.Slug, "err", err)
		}
	}
	return nil
}
