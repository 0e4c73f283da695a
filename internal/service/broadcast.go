package service

import (
	"context"
	"fmt"
	"log/slog"

	"mailcast/internal/model"
	"mailcast/internal/repo"
)

// Waker is the best-effort wake-up hint to the delivery worker. Losing a
// signal only adds latency; the poll timer is the correctness backstop.
type Waker interface {
	Wake()
}

// FanOutResult is what the HTTP layer shows the operator after a broadcast
// was created.
type FanOutResult struct {
	RecipientsInserted int64 `json:"recipientsInserted"`
	BroadcastID        int64 `json:"broadcastId"`
	EmailID            int64 `json:"emailId"`
	Notified           bool  `json:"notified"`
}

// BroadcastService orchestrates fan-out: validate the document, run the
// atomic create, poke the worker. Deliberately not idempotent; calling it
// twice with the same document creates two independent broadcasts.
type BroadcastService struct {
	broadcasts repo.BroadcastRepository
	contacts   repo.ContactRepository
	replyTo    string
	waker      Waker
	log        *slog.Logger
}

func NewBroadcastService(broadcasts repo.BroadcastRepository, contacts repo.ContactRepository, replyTo string, waker Waker, log *slog.Logger) *BroadcastService {
	if log == nil {
		log = slog.Default()
	}
	return &BroadcastService{
		broadcasts: broadcasts,
		contacts:   contacts,
		replyTo:    replyTo,
		waker:      waker,
		log:        log,
	}
}

// CreateBroadcast validates the document before any write, then delegates to
// the repository's single transaction. Any error there means nothing was
// persisted.
func (s *BroadcastService) CreateBroadcast(ctx context.Context, doc model.Document) (FanOutResult, error) {
	if err := doc.Validate(); err != nil {
		return FanOutResult{}, err
	}

	fo, err := s.broadcasts.CreateBroadcast(ctx, doc, s.replyTo)
	if err != nil {
		return FanOutResult{}, fmt.Errorf("create broadcast: %w", err)
	}

	res := FanOutResult{
		RecipientsInserted: fo.Inserted,
		BroadcastID:        fo.BroadcastID,
		EmailID:            fo.EmailID,
	}

	if s.waker != nil {
		s.waker.Wake()
		res.Notified = true
	}

	s.log.Info("broadcast created",
		"slug", doc.EffectiveSlug(),
		"audience", doc.Audience(),
		"recipients", fo.Inserted,
		"notified", res.Notified,
	)
	return res, nil
}

// AudienceCount resolves the current recipient count for a targeting filter.
func (s *BroadcastService) AudienceCount(ctx context.Context, audience string) (int64, error) {
	return s.contacts.CountAudience(ctx, audience)
}

// Stats reports delivery progress for one broadcast slug.
func (s *BroadcastService) Stats(ctx context.Context, slug string) (repo.BroadcastStats, error) {
	return s.broadcasts.Stats(ctx, slug)
}
