package services

import (
	"errors"
	"fmt"
	"strings"

	"skillbox/internal/config"
	"skillbox/internal/services/assemblyai"
	"skillbox/internal/services/resend"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrExternalTool  = errors.New("external tool error")
	ErrRemote        = errors.New("remote call failed")
	ErrNotFound      = errors.New("not found")
)

// Kind classifies a command failure for the final error report.
type Kind string

// Failure kinds.
const (
	KindUnknown       Kind = "unknown"
	KindValidation    Kind = "validation"
	KindConfiguration Kind = "configuration"
	KindExternalTool  Kind = "external_tool"
	KindRemote        Kind = "remote"
	KindNotFound      Kind = "not_found"
)

// Wrap builds an error message that includes command context while tagging
// it with the provided marker for later classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, command, operation, message string, err error) error {
	detail := buildDetail(command, operation, message)
	if marker == nil {
		marker = ErrRemote
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error onto a Kind. Typed remote errors count as remote
// even when no marker was attached.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var (
		statusErr *assemblyai.StatusError
		jobErr    *assemblyai.JobError
		apiErr    *resend.APIError
	)
	switch {
	case errors.Is(err, config.ErrMissingCredential), errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrExternalTool):
		return KindExternalTool
	case errors.Is(err, ErrRemote), errors.As(err, &statusErr), errors.As(err, &jobErr), errors.As(err, &apiErr):
		return KindRemote
	default:
		return KindUnknown
	}
}

// Hint returns a one-line suggestion for the failure kind, or "".
func Hint(kind Kind) string {
	switch kind {
	case KindConfiguration:
		return "run 'skillbox config init' and set the missing value, or export the named environment variable"
	case KindValidation:
		return "check the command flags with --help"
	case KindRemote:
		return "the remote API rejected the request; the message above is its response"
	default:
		return ""
	}
}

func buildDetail(command, operation, message string) string {
	parts := make([]string, 0, 3)
	if command = strings.TrimSpace(command); command != "" {
		parts = append(parts, command)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "command failure"
	}
	return strings.Join(parts, ": ")
}
