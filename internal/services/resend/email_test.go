package resend

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitAddresses(t *testing.T) {
	got := SplitAddresses(" a@example.com, ,b@example.com ,")
	if len(got) != 2 || got[0] != "a@example.com" || got[1] != "b@example.com" {
		t.Fatalf("unexpected split %v", got)
	}
	if got := SplitAddresses(""); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}

func TestBuildEmailCopiesOptionalFields(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "report.pdf")
	second := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(first, []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	email, err := BuildEmail(context.Background(), Draft{
		From:        "Me <me@example.com>",
		To:          "a@example.com,b@example.com",
		Subject:     "Weekly",
		Text:        "body",
		CC:          "c@example.com",
		BCC:         "d@example.com, e@example.com",
		ReplyTo:     "r@example.com",
		Attachments: []string{first, second},
		ScheduledAt: "in 1 hour",
	})
	if err != nil {
		t.Fatalf("BuildEmail returned error: %v", err)
	}
	if len(email.To) != 2 || len(email.CC) != 1 || len(email.BCC) != 2 || len(email.ReplyTo) != 1 {
		t.Fatalf("unexpected address lists %+v", email)
	}
	if email.ScheduledAt != "in 1 hour" {
		t.Fatalf("scheduled_at not copied: %q", email.ScheduledAt)
	}
	if len(email.Attachments) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(email.Attachments))
	}
	if email.Attachments[0].Filename != "report.pdf" || email.Attachments[1].Filename != "notes.txt" {
		t.Fatalf("attachment order not preserved: %+v", email.Attachments)
	}
	if email.Attachments[1].Content != base64.StdEncoding.EncodeToString([]byte("hello")) {
		t.Fatalf("unexpected attachment content %q", email.Attachments[1].Content)
	}
}

func TestBuildEmailRequiresBody(t *testing.T) {
	_, err := BuildEmail(context.Background(), Draft{From: "me@example.com", To: "a@example.com", Subject: "s"})
	if !errors.Is(err, ErrBodyRequired) {
		t.Fatalf("expected ErrBodyRequired, got %v", err)
	}
}

func TestBuildEmailMissingAttachment(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.pdf")
	_, err := BuildEmail(context.Background(), Draft{
		From:        "me@example.com",
		To:          "a@example.com",
		Subject:     "s",
		HTML:        "<p>x</p>",
		Attachments: []string{missing},
	})
	if !errors.Is(err, ErrAttachmentNotFound) {
		t.Fatalf("expected ErrAttachmentNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), missing) {
		t.Fatalf("expected path in error, got %v", err)
	}
}

func TestBuildEmailRecipientLimit(t *testing.T) {
	recipients := make([]string, MaxRecipients+1)
	for i := range recipients {
		recipients[i] = fmt.Sprintf("u%d@example.com", i)
	}
	_, err := BuildEmail(context.Background(), Draft{
		From:    "me@example.com",
		To:      strings.Join(recipients, ","),
		Subject: "s",
		Text:    "t",
	})
	if !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}

	_, err = BuildEmail(context.Background(), Draft{
		From:    "me@example.com",
		To:      strings.Join(recipients[:MaxRecipients], ","),
		Subject: "s",
		Text:    "t",
	})
	if err != nil {
		t.Fatalf("expected %d recipients to be accepted, got %v", MaxRecipients, err)
	}
}

func TestBuildEmailRequiresFields(t *testing.T) {
	cases := []Draft{
		{To: "a@example.com", Subject: "s", Text: "t"},
		{From: "me@example.com", Subject: "s", Text: "t"},
		{From: "me@example.com", To: "a@example.com", Text: "t"},
	}
	for _, draft := range cases {
		if _, err := BuildEmail(context.Background(), draft); !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("expected ErrInvalidEmail for %+v, got %v", draft, err)
		}
	}
}
