package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"skillbox/internal/config"
	"skillbox/internal/services"
)

func TestReportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  []string
	}{
		{name: "nil", err: nil, wantCode: 0},
		{name: "silent exit", err: &exitError{code: 3}, wantCode: 3},
		{name: "wrapped silent exit", err: fmt.Errorf("send: %w", &exitError{code: 1}), wantCode: 1},
		{name: "canceled", err: context.Canceled, wantCode: 1},
		{
			name:     "validation hint",
			err:      services.Wrap(services.ErrValidation, "image", "request", "bad resolution", nil),
			wantCode: 1,
			wantOut:  []string{"Error: ", "bad resolution", "Hint: "},
		},
		{
			name:     "missing credential hint",
			err:      fmt.Errorf("resend: %w", config.ErrMissingCredential),
			wantCode: 1,
			wantOut:  []string{"Error: ", "credential missing", "Hint: "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if code := reportError(&buf, tt.err); code != tt.wantCode {
				t.Fatalf("code = %d, want %d", code, tt.wantCode)
			}
			if len(tt.wantOut) == 0 && buf.Len() != 0 {
				t.Fatalf("expected no output, got %q", buf.String())
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(buf.String(), want) {
					t.Fatalf("output %q missing %q", buf.String(), want)
				}
			}
		})
	}
}

func TestRootHelpListsCommands(t *testing.T) {
	isolateCLI(t)

	res := runCLI(t, "--help")
	if res.code != 0 {
		t.Fatalf("help exit %d: %s", res.code, res.stderr)
	}
	for _, sub := range []string{"transcribe", "image", "email", "config", "deps"} {
		if !strings.Contains(res.stdout, sub) {
			t.Fatalf("help output missing %q:\n%s", sub, res.stdout)
		}
	}
}

func TestInvalidConfigFails(t *testing.T) {
	isolateCLI(t)

	cfg := config.Default()
	cfg.Images.Provider = "dalle"
	path := writeTestConfig(t, &cfg)

	res := runCLI(t, "--config", path, "deps")
	if res.code != 1 {
		t.Fatalf("expected exit 1, got %d", res.code)
	}
	if !strings.Contains(res.stderr, "load configuration") {
		t.Fatalf("stderr missing load error: %q", res.stderr)
	}
}

func TestSentence(t *testing.T) {
	if got := sentence("attachment not found: a.pdf"); got != "Attachment not found: a.pdf" {
		t.Fatalf("sentence = %q", got)
	}
	if got := sentence(""); got != "" {
		t.Fatalf("sentence(\"\") = %q", got)
	}
}
