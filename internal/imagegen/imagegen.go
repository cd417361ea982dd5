package imagegen

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrNoImage reports a model reply that carried no image part.
	ErrNoImage = errors.New("no image was generated in the response")
	// ErrUnsupportedResolution reports a resolution the provider does not offer.
	ErrUnsupportedResolution = errors.New("unsupported resolution")
	// ErrPromptRequired reports an empty prompt.
	ErrPromptRequired = errors.New("prompt required")
)

// DefaultResolution is used when neither the user nor an input image picks one.
const DefaultResolution = "1K"

// InputImage is an image supplied for editing, normalized to PNG.
type InputImage struct {
	Path     string
	Data     []byte
	MIMEType string
	// SourceType is the MIME type of the file on disk before re-encoding.
	SourceType string
	Width      int
	Height     int
}

// Request is a single generation or edit call.
type Request struct {
	Prompt     string
	Input      *InputImage
	Resolution string
}

// Editing reports whether the request carries an input image.
func (r Request) Editing() bool {
	return r.Input != nil
}

// Image is one generated picture as returned by the provider.
type Image struct {
	Data     []byte
	MIMEType string
}

// Result collects the text and image parts of a model reply, in order.
type Result struct {
	Texts  []string
	Images []Image
}

// Generator produces images from prompts.
type Generator interface {
	Name() string
	Model() string
	Resolutions() []string
	Generate(ctx context.Context, req Request) (Result, error)
}

// ValidateRequest checks the prompt and resolution against the generator.
func ValidateRequest(gen Generator, req Request) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return ErrPromptRequired
	}
	allowed := gen.Resolutions()
	if !slices.Contains(allowed, req.Resolution) {
		return fmt.Errorf("%w %q for %s (choose %s)", ErrUnsupportedResolution, req.Resolution, gen.Name(), strings.Join(allowed, ", "))
	}
	return nil
}
