package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mailcast/internal/client"
	"mailcast/internal/model"
	"mailcast/internal/repo"
	"mailcast/internal/service"
)

type fakeMessageRepo struct {
	mu sync.Mutex

	ready    []model.Message
	fetchErr error

	sentIDs   []int64
	failedIDs []int64
	reasons   []string
}

var _ repo.MessageRepository = (*fakeMessageRepo)(nil)

func (f *fakeMessageRepo) FetchReady(ctx context.Context, limit int) ([]model.Message, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if limit < len(f.ready) {
		return f.ready[:limit], nil
	}
	return f.ready, nil
}

func (f *fakeMessageRepo) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sentIDs = append(f.sentIDs, id)
	return nil
}

func (f *fakeMessageRepo) MarkFailed(ctx context.Context, id int64, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failedIDs = append(f.failedIDs, id)
	f.reasons = append(f.reasons, reason)
	return nil
}

func (f *fakeMessageRepo) ListSent(ctx context.Context, limit, offset int) ([]model.Message, error) {
	return nil, errors.New("not implemented")
}

type fakeCache struct {
	mu       sync.Mutex
	receipts []int64
	sent     map[string]int
	failed   map[string]int
}

func newFakeCache() *fakeCache {
	return &fakeCache{sent: map[string]int{}, failed: map[string]int{}}
}

func (f *fakeCache) StoreSent(ctx context.Context, messageID int64, providerID string, sentAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receipts = append(f.receipts, messageID)
	return nil
}

func (f *fakeCache) IncrSent(ctx context.Context, slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[slug]++
	return nil
}

func (f *fakeCache) IncrFailed(ctx context.Context, slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed[slug]++
	return nil
}

func TestDelivery_Tick_MixedBatch(t *testing.T) {
	t.Parallel()

	mr := &fakeMessageRepo{ready: []model.Message{
		pendingMessage(1, "ok@example.com"),
		pendingMessage(2, "reject@example.com"),
		pendingMessage(3, "flaky@example.com"),
	}}
	fc := &fakeClient{errs: map[string]error{
		"reject@example.com": &client.SendError{StatusCode: 422, Permanent: true, Reason: "invalid mailbox"},
		"flaky@example.com":  &client.SendError{StatusCode: 503, Reason: "upstream down"},
	}}
	dc := newFakeCache()

	d := service.NewDelivery(mr, fc, dc, 50, nil)
	d.Tick(context.Background())

	if len(mr.sentIDs) != 1 || mr.sentIDs[0] != 1 {
		t.Fatalf("expected id=1 marked sent, got %v", mr.sentIDs)
	}
	if len(mr.failedIDs) != 1 || mr.failedIDs[0] != 2 {
		t.Fatalf("expected id=2 marked failed, got %v", mr.failedIDs)
	}
	// id=3 stays pending: no status change at all.
	for _, id := range append(mr.sentIDs, mr.failedIDs...) {
		if id == 3 {
			t.Fatalf("transient failure must not change status, got sent=%v failed=%v", mr.sentIDs, mr.failedIDs)
		}
	}

	if len(dc.receipts) != 1 || dc.receipts[0] != 1 {
		t.Fatalf("expected cached receipt for id=1, got %v", dc.receipts)
	}
	if dc.sent["spring-sale"] != 1 || dc.failed["spring-sale"] != 1 {
		t.Fatalf("unexpected counters: sent=%v failed=%v", dc.sent, dc.failed)
	}
}

func TestDelivery_Tick_TransportDown_AllStayPending(t *testing.T) {
	t.Parallel()

	down := &client.SendError{Reason: "dial tcp: connection refused"}
	mr := &fakeMessageRepo{ready: []model.Message{
		pendingMessage(1, "a@example.com"),
		pendingMessage(2, "b@example.com"),
		pendingMessage(3, "c@example.com"),
	}}
	fc := &fakeClient{errs: map[string]error{
		"a@example.com": down,
		"b@example.com": down,
		"c@example.com": down,
	}}

	d := service.NewDelivery(mr, fc, nil, 50, nil)
	d.Tick(context.Background())

	if len(mr.sentIDs) != 0 || len(mr.failedIDs) != 0 {
		t.Fatalf("expected no status changes, got sent=%v failed=%v", mr.sentIDs, mr.failedIDs)
	}
}

func TestDelivery_Tick_EmptyBatch(t *testing.T) {
	t.Parallel()

	mr := &fakeMessageRepo{}
	fc := &fakeClient{}

	d := service.NewDelivery(mr, fc, nil, 50, nil)
	d.Tick(context.Background())

	if len(fc.sentTo) != 0 {
		t.Fatalf("transport must not be called on an empty batch, got %v", fc.sentTo)
	}
}

func TestDelivery_Tick_FetchErrorDoesNotPanic(t *testing.T) {
	t.Parallel()

	mr := &fakeMessageRepo{fetchErr: errors.New("connection lost")}
	fc := &fakeClient{}

	d := service.NewDelivery(mr, fc, nil, 50, nil)
	d.Tick(context.Background())

	if len(fc.sentTo) != 0 {
		t.Fatalf("transport must not be called when fetch fails, got %v", fc.sentTo)
	}
}

func TestDelivery_Tick_RespectsBatchSize(t *testing.T) {
	t.Parallel()

	mr := &fakeMessageRepo{ready: []model.Message{
		pendingMessage(1, "a@example.com"),
		pendingMessage(2, "b@example.com"),
		pendingMessage(3, "c@example.com"),
	}}
	fc := &fakeClient{}

	d := service.NewDelivery(mr, fc, nil, 2, nil)
	d.Tick(context.Background())

	if len(mr.sentIDs) != 2 {
		t.Fatalf("expected batch capped at 2, got %d sends", len(mr.sentIDs))
	}
}
