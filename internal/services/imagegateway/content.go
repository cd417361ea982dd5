package imagegateway

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"skillbox/internal/imagegen"
)

const inlineMarker = "[inlineData]:"

var (
	dataURIPattern = regexp.MustCompile(`(?s)^\s*data:(image/[^;]+);base64,(.*)$`)
	base64Token    = regexp.MustCompile(`^[A-Za-z0-9+/]+=*$`)
)

// ParseContent splits a gateway reply of the form
//
//	text\n[inlineData]: data:image/png;base64,<data>
//
// into the model text and the decoded images. Content without the marker is
// text only. Text trailing an image payload is kept as model text.
func ParseContent(content string) (imagegen.Result, error) {
	var result imagegen.Result
	segments := strings.Split(content, inlineMarker)

	if text := strings.TrimSpace(segments[0]); text != "" {
		result.Texts = append(result.Texts, text)
	}
	for _, segment := range segments[1:] {
		match := dataURIPattern.FindStringSubmatch(segment)
		if match == nil {
			continue
		}
		data, rest, err := decodePayload(match[2])
		if err != nil {
			return result, fmt.Errorf("decode inline image: %w", err)
		}
		result.Images = append(result.Images, imagegen.Image{Data: data, MIMEType: match[1]})
		if rest != "" {
			result.Texts = append(result.Texts, rest)
		}
	}
	return result, nil
}

// decodePayload reads base64 tokens up to a blank line, padding, or the
// first token outside the base64 alphabet. Wrapped payloads are joined. The
// unread remainder is returned trimmed.
func decodePayload(value string) ([]byte, string, error) {
	body, tail, _ := strings.Cut(strings.TrimLeft(value, " \t\r\n"), "\n\n")
	fields := strings.Fields(body)

	n := 0
	for n < len(fields) && base64Token.MatchString(fields[n]) {
		n++
		if strings.HasSuffix(fields[n-1], "=") {
			break
		}
	}
	if n == 0 {
		return nil, "", errors.New("no base64 payload")
	}

	data, err := base64.StdEncoding.DecodeString(strings.Join(fields[:n], ""))
	if err != nil && n > 1 {
		// A single newline may separate an unpadded payload from text.
		if first, firstErr := base64.StdEncoding.DecodeString(fields[0]); firstErr == nil {
			data, err, n = first, nil, 1
		}
	}
	if err != nil {
		return nil, "", err
	}

	rest := strings.Join(fields[n:], " ")
	if tail = strings.TrimSpace(tail); tail != "" {
		rest = strings.TrimSpace(rest + "\n\n" + tail)
	}
	return data, rest, nil
}
