package model

import "time"

// BroadcastStatus is coarse and informational; the delivery pipeline only
// mutates messages, never the broadcast row.
type BroadcastStatus string

const (
	BroadcastPending BroadcastStatus = "pending"
	BroadcastSent    BroadcastStatus = "sent"
	BroadcastFailed  BroadcastStatus = "failed"
)

// Broadcast is one logical campaign: a name, a rendered email and a targeting
// filter. Created exactly once per fan-out call.
type Broadcast struct {
	ID        int64
	EmailID   int64
	Status    BroadcastStatus
	Name      string
	Slug      string
	ReplyTo   string
	SendToTag string
	CreatedAt time.Time
}

// BroadcastFromDocument derives the broadcast metadata from the source
// document. Name and slug are fixed here and never recomputed.
func BroadcastFromDocument(doc Document, replyTo string) Broadcast {
	return Broadcast{
		Status:    BroadcastPending,
		Name:      doc.Subject,
		Slug:      doc.EffectiveSlug(),
		ReplyTo:   replyTo,
		SendToTag: doc.Audience(),
	}
}
