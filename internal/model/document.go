package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// AudienceAll targets every subscribed contact.
const AudienceAll = "*"

// ErrInvalidDocument wraps every document validation failure so callers can
// distinguish bad input from store errors.
var ErrInvalidDocument = errors.New("invalid document")

// Document is a fully rendered email handed to the pipeline by the
// markdown/front-matter renderer. The pipeline never renders anything itself;
// it only validates what it was given and fans it out.
type Document struct {
	Subject    string `json:"subject"`
	Summary    string `json:"summary"`
	Slug       string `json:"slug"`
	SendToTag  string `json:"sendToTag"`
	DelayHours int    `json:"delayHours"`
	HTML       string `json:"html"`
}

// Validate fails closed on missing required fields. Slug and SendToTag are
// optional; they default via EffectiveSlug and Audience.
func (d Document) Validate() error {
	if strings.TrimSpace(d.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidDocument)
	}
	if strings.TrimSpace(d.Summary) == "" {
		return fmt.Errorf("%w: summary is required", ErrInvalidDocument)
	}
	if strings.TrimSpace(d.HTML) == "" {
		return fmt.Errorf("%w: rendered html is required", ErrInvalidDocument)
	}
	if d.DelayHours < 0 {
		return fmt.Errorf("%w: delayHours must be >= 0", ErrInvalidDocument)
	}
	return nil
}

// EffectiveSlug returns the document slug, derived from the subject when the
// front matter did not provide one.
func (d Document) EffectiveSlug() string {
	if s := strings.TrimSpace(d.Slug); s != "" {
		return s
	}
	return Slugify(d.Subject)
}

// Audience returns the targeting filter, defaulting to all subscribed
// contacts.
func (d Document) Audience() string {
	if t := strings.TrimSpace(d.SendToTag); t != "" {
		return t
	}
	return AudienceAll
}

// Slugify turns free text into a URL-safe slug: lowercased, runs of
// non-alphanumerics collapsed into single dashes.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
