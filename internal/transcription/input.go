package transcription

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// ErrFileNotFound reports a local audio path that does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrUnsupportedFormat reports a local audio file with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

var supportedExtensions = map[string]struct{}{
	".wav":  {},
	".mp3":  {},
	".aiff": {},
	".aac":  {},
	".ogg":  {},
	".flac": {},
	".m4a":  {},
	".wma":  {},
	".webm": {},
}

// SupportedExtensions lists accepted local audio extensions, sorted.
func SupportedExtensions() []string {
	out := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		out = append(out, ext)
	}
	slices.Sort(out)
	return out
}

// Input is a validated audio source: either a remote URL or a local file.
type Input struct {
	URL  string
	Path string
	Size int64
}

// IsRemote reports whether the audio is already reachable by URL.
func (i Input) IsRemote() bool {
	return i.URL != ""
}

// IsURL reports whether value is an http(s) URL.
func IsURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

// ValidateInput accepts URLs as-is and checks local files for existence and
// a supported extension.
func ValidateInput(value string) (Input, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Input{}, errors.New("audio input required")
	}
	if IsURL(value) {
		return Input{URL: value}, nil
	}
	info, err := os.Stat(value)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Input{}, fmt.Errorf("%w: %s", ErrFileNotFound, value)
		}
		return Input{}, fmt.Errorf("stat audio: %w", err)
	}
	if info.IsDir() {
		return Input{}, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, value)
	}
	ext := strings.ToLower(filepath.Ext(value))
	if _, ok := supportedExtensions[ext]; !ok {
		return Input{}, fmt.Errorf("%w: %q. Supported: %s", ErrUnsupportedFormat, filepath.Ext(value), strings.Join(SupportedExtensions(), ", "))
	}
	return Input{Path: value, Size: info.Size()}, nil
}
