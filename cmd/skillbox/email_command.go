package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"skillbox/internal/config"
	"skillbox/internal/logging"
	"skillbox/internal/services/resend"
)

type emailOptions struct {
	draft          resend.Draft
	htmlFile       string
	textFile       string
	apiKey         string
	idempotencyKey string
}

func newEmailCommand(ctx *commandContext) *cobra.Command {
	opts := &emailOptions{}
	cmd := &cobra.Command{
		Use:   "email",
		Short: "Send a transactional email through Resend",
		Long: `Send an email through the Resend API and print the JSON result.

Address flags accept comma-separated lists. Attach files with repeated
--attachment flags. The command exits 0 only when Resend returns an email id;
failures are printed as {"error": ...}.`,
		Args: cobra.NoArgs,
		// Config errors are reported as JSON by runEmail.
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmail(cmd, ctx, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.draft.To, "to", "", "Recipient email(s), comma-separated (up to 50)")
	flags.StringVar(&opts.draft.Subject, "subject", "", "Email subject")
	flags.StringVar(&opts.draft.From, "from", "", `Sender ("Name <email@domain.com>" or "email@domain.com")`)
	flags.StringVar(&opts.draft.HTML, "html", "", "HTML body content")
	flags.StringVar(&opts.draft.Text, "text", "", "Plain text body")
	flags.StringVar(&opts.htmlFile, "html-file", "", "Read the HTML body from a file")
	flags.StringVar(&opts.textFile, "text-file", "", "Read the plain text body from a file")
	flags.StringVar(&opts.draft.CC, "cc", "", "CC recipient(s), comma-separated")
	flags.StringVar(&opts.draft.BCC, "bcc", "", "BCC recipient(s), comma-separated")
	flags.StringVar(&opts.draft.ReplyTo, "reply-to", "", "Reply-to address(es), comma-separated")
	flags.StringArrayVar(&opts.draft.Attachments, "attachment", nil, "File path to attach (repeatable)")
	flags.StringVar(&opts.draft.ScheduledAt, "scheduled-at", "", "Schedule delivery (ISO 8601 or natural language)")
	flags.StringVar(&opts.idempotencyKey, "idempotency-key", "", "Idempotency key (default: random UUID)")
	flags.StringVarP(&opts.apiKey, "api-key", "k", "", "Resend API key (overrides RESEND_API_KEY)")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func runEmail(cmd *cobra.Command, ctx *commandContext, opts *emailOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return emailFailure(cmd, sentence(err.Error()))
	}
	base, err := ctx.baseLogger(cmd)
	if err != nil {
		return emailFailure(cmd, sentence(err.Error()))
	}
	logger := logging.NewComponentLogger(base, "email")

	if key := strings.TrimSpace(opts.apiKey); key != "" {
		cfg.Resend.APIKey = key
	}
	if err := cfg.RequireResend(); errors.Is(err, config.ErrMissingCredential) {
		return emailFailure(cmd, "RESEND_API_KEY environment variable not set")
	}

	draft := opts.draft
	if draft.HTML == "" && opts.htmlFile != "" {
		data, err := os.ReadFile(opts.htmlFile)
		if err != nil {
			return emailFailure(cmd, fmt.Sprintf("read html file: %v", err))
		}
		draft.HTML = string(data)
	}
	if draft.Text == "" && opts.textFile != "" {
		data, err := os.ReadFile(opts.textFile)
		if err != nil {
			return emailFailure(cmd, fmt.Sprintf("read text file: %v", err))
		}
		draft.Text = string(data)
	}

	email, err := resend.BuildEmail(cmd.Context(), draft)
	if err != nil {
		return emailFailure(cmd, sentence(err.Error()))
	}

	client := resend.NewClient(resend.Config{
		APIKey:         cfg.Resend.APIKey,
		BaseURL:        cfg.Resend.BaseURL,
		UserAgent:      cfg.Resend.UserAgent,
		TimeoutSeconds: cfg.Resend.TimeoutSeconds,
	}, resend.WithRetryMaxAttempts(cfg.Resend.RetryAttempts))

	key := strings.TrimSpace(opts.idempotencyKey)
	if key == "" {
		key = resend.NewIdempotencyKey()
	}
	logger.Info("sending email",
		logging.Int64("recipients", int64(len(email.To))),
		logging.Int64("attachments", int64(len(email.Attachments))),
		logging.String("idempotency_key", key),
	)

	result, err := client.Send(cmd.Context(), email, key)
	if err != nil {
		var apiErr *resend.APIError
		if errors.As(err, &apiErr) {
			logger.Warn("resend rejected email", logging.Int64("status", int64(apiErr.StatusCode)))
			return emailFailure(cmd, apiErr.Body)
		}
		return emailFailure(cmd, err.Error())
	}
	if err := writeJSON(cmd, result); err != nil {
		return err
	}
	if result.ID == "" {
		return &exitError{code: 1}
	}
	return nil
}

// emailFailure prints {"error": detail} and exits 1 without further output.
func emailFailure(cmd *cobra.Command, detail any) error {
	if err := writeJSON(cmd, map[string]any{"error": detail}); err != nil {
		return err
	}
	return &exitError{code: 1}
}

func sentence(msg string) string {
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
