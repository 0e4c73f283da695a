package model

import "time"

type Status string

const (
	Pending Status = "pending"
	Sent    Status = "sent"
	Failed  Status = "failed"
)

// SourceBroadcast marks messages created by broadcast fan-out. Transactional
// sends reuse the same table with a different source.
const SourceBroadcast = "broadcast"

// Message is one unit of delivery work: this exact rendered content to this
// exact address. Created in bulk by fan-out, mutated only by the delivery
// worker.
type Message struct {
	ID        int64
	Source    string
	Slug      string
	Status    Status
	SendTo    string
	SendFrom  string
	Subject   string
	HTML      string
	SendAt    time.Time
	SentAt    *time.Time
	LastError *string
	CreatedAt time.Time
}

// ReadyToSend gates whether the worker may attempt delivery: status pending,
// due, and all fields required by the transport populated.
func (m Message) ReadyToSend(now time.Time) bool {
	return m.Status == Pending &&
		!m.SendAt.After(now) &&
		m.SendTo != "" &&
		m.SendFrom != "" &&
		m.Subject != "" &&
		m.HTML != ""
}

// MarkSent transitions the message to its terminal sent state.
func (m *Message) MarkSent(at time.Time) {
	m.Status = Sent
	t := at.UTC()
	m.SentAt = &t
}
