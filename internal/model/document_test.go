package model

import (
	"errors"
	"testing"
)

func validDocument() Document {
	return Document{
		Subject: "Spring Sale!",
		Summary: "Our biggest sale of the year",
		HTML:    "<h1>Spring Sale</h1>",
	}
}

func TestDocument_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Document)
		wantErr bool
	}{
		{"valid", func(*Document) {}, false},
		{"missing subject", func(d *Document) { d.Subject = "" }, true},
		{"whitespace subject", func(d *Document) { d.Subject = "   " }, true},
		{"missing summary", func(d *Document) { d.Summary = "" }, true},
		{"missing html", func(d *Document) { d.HTML = "" }, true},
		{"negative delay", func(d *Document) { d.DelayHours = -1 }, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc := validDocument()
			tc.mutate(&doc)

			err := doc.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidDocument) {
					t.Fatalf("expected ErrInvalidDocument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
		})
	}
}

func TestDocument_EffectiveSlug(t *testing.T) {
	t.Parallel()

	doc := validDocument()
	if got := doc.EffectiveSlug(); got != "spring-sale" {
		t.Fatalf("expected derived slug %q, got %q", "spring-sale", got)
	}

	doc.Slug = "my-custom-slug"
	if got := doc.EffectiveSlug(); got != "my-custom-slug" {
		t.Fatalf("expected explicit slug to win, got %q", got)
	}
}

func TestDocument_Audience(t *testing.T) {
	t.Parallel()

	doc := validDocument()
	if got := doc.Audience(); got != AudienceAll {
		t.Fatalf("expected default audience %q, got %q", AudienceAll, got)
	}

	doc.SendToTag = "newsletter"
	if got := doc.Audience(); got != "newsletter" {
		t.Fatalf("expected audience %q, got %q", "newsletter", got)
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Spring Sale!", "spring-sale"},
		{"  Hello,   World  ", "hello-world"},
		{"already-a-slug", "already-a-slug"},
		{"Q2 2025 Update", "q2-2025-update"},
		{"", ""},
	}

	for _, tc := range tests {
		tc := tc
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewEmail_FromDocument(t *testing.T) {
	t.Parallel()

	doc := validDocument()
	doc.DelayHours = 2

	email, err := NewEmail(doc)
	if err != nil {
		t.Fatalf("NewEmail() error: %v", err)
	}

	if email.Slug != "spring-sale" {
		t.Fatalf("expected slug %q, got %q", "spring-sale", email.Slug)
	}
	if email.Subject != doc.Subject {
		t.Fatalf("expected subject %q, got %q", doc.Subject, email.Subject)
	}
	if email.Preview != doc.Summary {
		t.Fatalf("expected preview %q, got %q", doc.Summary, email.Preview)
	}
	if email.DelayHours != 2 {
		t.Fatalf("expected delay 2, got %d", email.DelayHours)
	}
}

func TestNewEmail_InvalidDocument(t *testing.T) {
	t.Parallel()

	doc := validDocument()
	doc.HTML = ""

	if _, err := NewEmail(doc); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestBroadcastFromDocument(t *testing.T) {
	t.Parallel()

	doc := validDocument()
	doc.SendToTag = "newsletter"

	b := BroadcastFromDocument(doc, "noreply@tailwind.dev")

	if b.Status != BroadcastPending {
		t.Fatalf("expected status %q, got %q", BroadcastPending, b.Status)
	}
	if b.Name != doc.Subject {
		t.Fatalf("expected name %q, got %q", doc.Subject, b.Name)
	}
	if b.Slug != "spring-sale" {
		t.Fatalf("expected slug %q, got %q", "spring-sale", b.Slug)
	}
	if b.SendToTag != "newsletter" {
		t.Fatalf("expected send_to_tag %q, got %q", "newsletter", b.SendToTag)
	}
	if b.ReplyTo != "noreply@tailwind.dev" {
		t.Fatalf("expected reply_to %q, got %q", "noreply@tailwind.dev", b.ReplyTo)
	}
}
