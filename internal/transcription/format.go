package transcription

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"skillbox/internal/services/assemblyai"
)

// Format selects how a completed transcript is rendered.
type Format string

// Output formats.
const (
	FormatDiarized Format = "diarized"
	FormatText     Format = "text"
	FormatSRT      Format = "srt"
	FormatJSON     Format = "json"
)

// Formats lists every supported output format.
func Formats() []Format {
	return []Format{FormatDiarized, FormatText, FormatSRT, FormatJSON}
}

// ParseFormat validates a user supplied format name.
func ParseFormat(value string) (Format, error) {
	normalized := Format(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return FormatDiarized, nil
	}
	for _, f := range Formats() {
		if f == normalized {
			return f, nil
		}
	}
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return "", fmt.Errorf("unsupported output format %q (choose %s)", value, strings.Join(names, ", "))
}

// Render converts a completed transcript into the requested format.
// Diarized and SRT output fall back to plain text when no utterances exist.
func Render(t assemblyai.Transcript, format Format) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode transcript: %w", err)
		}
		return string(data), nil
	case FormatText, "":
		return t.Text, nil
	}

	if len(t.Utterances) == 0 {
		return t.Text, nil
	}

	switch format {
	case FormatDiarized:
		blocks := make([]string, 0, len(t.Utterances))
		for _, u := range t.Utterances {
			blocks = append(blocks, fmt.Sprintf("[%s] Speaker %s: %s", FormatTimestamp(u.Start), u.Speaker, u.Text))
		}
		return strings.Join(blocks, "\n\n"), nil
	case FormatSRT:
		lines := make([]string, 0, len(t.Utterances)*4)
		for i, u := range t.Utterances {
			lines = append(lines,
				strconv.Itoa(i+1),
				fmt.Sprintf("%s --> %s", FormatSRTTime(u.Start), FormatSRTTime(u.End)),
				fmt.Sprintf("Speaker %s: %s", u.Speaker, u.Text),
				"",
			)
		}
		return strings.Join(lines, "\n"), nil
	default:
		return t.Text, nil
	}
}

// FormatTimestamp renders milliseconds as M:SS, or H:MM:SS past the first hour.
func FormatTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatSRTTime renders milliseconds as an SRT timestamp HH:MM:SS,mmm.
func FormatSRTTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3_600_000
	ms %= 3_600_000
	minutes := ms / 60_000
	ms %= 60_000
	seconds := ms / 1000
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}
