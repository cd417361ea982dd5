package resend

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// MaxRecipients is the largest "to" list the API accepts.
const MaxRecipients = 50

const attachmentReadLimit = 4

var (
	// ErrBodyRequired reports an email with neither HTML nor text.
	ErrBodyRequired = errors.New("either html or text body is required")
	// ErrAttachmentNotFound reports an attachment path that does not exist.
	ErrAttachmentNotFound = errors.New("attachment not found")
	// ErrInvalidEmail reports a missing required field or too many recipients.
	ErrInvalidEmail = errors.New("invalid email")
)

// Attachment is a file sent inline as base64.
type Attachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Email is the POST /emails request body.
type Email struct {
	From        string       `json:"from"`
	To          []string     `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html,omitempty"`
	Text        string       `json:"text,omitempty"`
	CC          []string     `json:"cc,omitempty"`
	BCC         []string     `json:"bcc,omitempty"`
	ReplyTo     []string     `json:"reply_to,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	ScheduledAt string       `json:"scheduled_at,omitempty"`
}

// Draft holds user input before it becomes an Email. Address fields are
// comma-separated lists.
type Draft struct {
	From        string
	To          string
	Subject     string
	HTML        string
	Text        string
	CC          string
	BCC         string
	ReplyTo     string
	Attachments []string
	ScheduledAt string
}

// SplitAddresses splits a comma-separated list, trimming entries and
// dropping empty ones.
func SplitAddresses(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// BuildEmail validates a draft and reads its attachments.
func BuildEmail(ctx context.Context, draft Draft) (Email, error) {
	email := Email{
		From:        strings.TrimSpace(draft.From),
		To:          SplitAddresses(draft.To),
		Subject:     draft.Subject,
		HTML:        draft.HTML,
		Text:        draft.Text,
		CC:          SplitAddresses(draft.CC),
		BCC:         SplitAddresses(draft.BCC),
		ReplyTo:     SplitAddresses(draft.ReplyTo),
		ScheduledAt: strings.TrimSpace(draft.ScheduledAt),
	}
	switch {
	case email.From == "":
		return Email{}, fmt.Errorf("%w: from address required", ErrInvalidEmail)
	case len(email.To) == 0:
		return Email{}, fmt.Errorf("%w: at least one recipient required", ErrInvalidEmail)
	case len(email.To) > MaxRecipients:
		return Email{}, fmt.Errorf("%w: %d recipients exceeds the limit of %d", ErrInvalidEmail, len(email.To), MaxRecipients)
	case strings.TrimSpace(email.Subject) == "":
		return Email{}, fmt.Errorf("%w: subject required", ErrInvalidEmail)
	case email.HTML == "" && email.Text == "":
		return Email{}, ErrBodyRequired
	}

	attachments, err := readAttachments(ctx, draft.Attachments)
	if err != nil {
		return Email{}, err
	}
	email.Attachments = attachments
	return email, nil
}

func readAttachments(ctx context.Context, paths []string) ([]Attachment, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrAttachmentNotFound, path)
			}
			return nil, fmt.Errorf("attachment %s: %w", path, err)
		}
	}

	out := make([]Attachment, len(paths))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(attachmentReadLimit)
	for i, path := range paths {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read attachment %s: %w", path, err)
			}
			out[i] = Attachment{
				Filename: filepath.Base(path),
				Content:  base64.StdEncoding.EncodeToString(data),
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
