package model

import "time"

// Email is the persisted rendered content a broadcast references. Immutable
// after creation.
type Email struct {
	ID         int64
	Slug       string
	Subject    string
	Preview    string
	DelayHours int
	HTML       string
	CreatedAt  time.Time
}

// NewEmail builds an Email from a validated document. The slug is derived
// once here and never recomputed.
func NewEmail(doc Document) (Email, error) {
	if err := doc.Validate(); err != nil {
		return Email{}, err
	}
	return Email{
		Slug:       doc.EffectiveSlug(),
		Subject:    doc.Subject,
		Preview:    doc.Summary,
		DelayHours: doc.DelayHours,
		HTML:       doc.HTML,
	}, nil
}
