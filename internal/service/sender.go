package service

import (
	"context"
	"log/slog"
	"time"

	"mailcast/internal/client"
	"mailcast/internal/model"
)

// MailClient is the transport capability the pipeline consumes: send one
// fully rendered message, get back a provider id or a classified error.
type MailClient interface {
	Send(ctx context.Context, msg model.Message) (providerID string, err error)
}

// Sender hands a batch of messages to the transport and reports each outcome
// through hooks. Permanent rejections fire onFailed; transient failures fire
// neither hook, leaving the record pending for the next tick.
type Sender struct {
	client MailClient
	log    *slog.Logger

	onSent   func(ctx context.Context, msg model.Message, providerID string, sentAt time.Time) error
	onFailed func(ctx context.Context, msg model.Message, reason string) error
}

func NewSender(c MailClient, log *slog.Logger) *Sender {
	if log == nil {
		log = slog.Default()
	}
	return &Sender{client: c, log: log}
}

func (s *Sender) WithHooks(
	onSent func(ctx context.Context, msg model.Message, providerID string, sentAt time.Time) error,
	onFailed func(ctx context.Context, msg model.Message, reason string) error,
) *Sender {
	s.onSent = onSent
	s.onFailed = onFailed
	return s
}

// ProcessBatch attempts delivery of every message once. Messages are
// independent units of work; one failure never aborts the rest of the batch.
func (s *Sender) ProcessBatch(ctx context.Context, msgs []model.Message) (sent, failed, deferred int) {
	for _, m := range msgs {
		if !m.ReadyToSend(time.Now()) {
			deferred++
			continue
		}

		providerID, err := s.client.Send(ctx, m)
		if err != nil {
			if client.IsPermanent(err) {
				failed++
				s.fail(ctx, m, err.Error())
			} else {
				deferred++
				s.log.Warn("transient send failure, message stays pending",
					"id", m.ID, "err", err)
			}
			continue
		}

		sent++
		if s.onSent != nil {
			if err := s.onSent(ctx, m, providerID, time.Now().UTC()); err != nil {
				s.log.Error("failed to record sent outcome", "id", m.ID, "err", err)
			}
		}
	}
	return sent, failed, deferred
}

func (s *Sender) fail(ctx context.Context, m model.Message, reason string) {
	if s.onFailed == nil {
		return
	}
	if err := s.onFailed(ctx, m, reason); err != nil {
		s.log.Error("failed to record failed outcome", "id", m.ID, "err", err)
	}
}
