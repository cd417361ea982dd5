package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage reports bytes that no registered decoder understands.
var ErrUnsupportedImage = errors.New("unsupported image")

// Resolution thresholds on the longest side of an input image.
const (
	threshold4K = 3000
	threshold2K = 1500
)

// Image is a decoded picture plus the facts callers report about it.
type Image struct {
	Source image.Image
	// Raw holds the encoded bytes the image was decoded from.
	Raw    []byte
	Format string
	Width  int
	Height int
}

// MIMEType returns the MIME type of the original encoding.
func (i Image) MIMEType() string {
	switch i.Format {
	case "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

// Decode parses PNG, JPEG, GIF or WebP bytes.
func Decode(data []byte) (Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %w", ErrUnsupportedImage, err)
	}
	bounds := img.Bounds()
	return Image{Source: img, Raw: data, Format: format, Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

// Load reads and decodes an image file.
func Load(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	img, err := Decode(data)
	if err != nil {
		return Image{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// AutoResolution maps the longest side of an input image onto an output size.
func AutoResolution(longestSide int) string {
	switch {
	case longestSide >= threshold4K:
		return "4K"
	case longestSide >= threshold2K:
		return "2K"
	default:
		return "1K"
	}
}

// Flatten composites img over an opaque white canvas. The result has no
// transparent pixels, so the PNG encoder writes it as RGB.
func Flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Over)
	return canvas
}

// EncodePNG flattens img and encodes it as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Flatten(img)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// PNGBytes returns the image as PNG, reusing the raw bytes when they are
// already PNG. Transparency is preserved.
func PNGBytes(img Image) ([]byte, error) {
	if img.Format == "png" && len(img.Raw) > 0 {
		return img.Raw, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.Source); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
