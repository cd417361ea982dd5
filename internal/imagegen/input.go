package imagegen

import (
	"fmt"

	"skillbox/internal/imaging"
)

// LoadInput reads and decodes an image to edit. Non-PNG inputs are
// re-encoded as PNG so both providers receive the same payload; SourceType
// keeps the MIME type of the file on disk.
func LoadInput(path string) (*InputImage, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load input image: %w", err)
	}
	encoded, err := imaging.PNGBytes(img)
	if err != nil {
		return nil, fmt.Errorf("load input image %s: %w", path, err)
	}
	return &InputImage{
		Path:       path,
		Data:       encoded,
		MIMEType:   "image/png",
		SourceType: img.MIMEType(),
		Width:      img.Width,
		Height:     img.Height,
	}, nil
}

// LongestSide returns max(width, height).
func (in *InputImage) LongestSide() int {
	return max(in.Width, in.Height)
}

// ResolveResolution returns the requested resolution, unless the user left
// it unset and an input image is present, in which case the input's longest
// side decides. The second return value reports auto-detection.
func ResolveResolution(requested string, explicit bool, input *InputImage) (string, bool) {
	if !explicit && input != nil {
		return imaging.AutoResolution(input.LongestSide()), true
	}
	if requested == "" {
		return DefaultResolution, false
	}
	return requested, false
}
