package imagegen

import (
	"fmt"
	"path/filepath"

	"skillbox/internal/fileutil"
	"skillbox/internal/imaging"
)

// Save decodes every generated image, flattens it onto white, and writes it
// as PNG. The first image lands on path; later ones on "<stem>-2.png" and so
// on. Absolute paths of the written files are returned.
func Save(result Result, path string) ([]string, error) {
	if len(result.Images) == 0 {
		return nil, ErrNoImage
	}
	saved := make([]string, 0, len(result.Images))
	for i, generated := range result.Images {
		img, err := imaging.Decode(generated.Data)
		if err != nil {
			return saved, fmt.Errorf("decode generated image %d: %w", i+1, err)
		}
		encoded, err := imaging.EncodePNG(img.Source)
		if err != nil {
			return saved, err
		}
		target := fileutil.SuffixedPath(path, i+1)
		if err := fileutil.WriteFileAtomic(target, encoded, 0o644); err != nil {
			return saved, fmt.Errorf("save image: %w", err)
		}
		abs, err := filepath.Abs(target)
		if err != nil {
			abs = target
		}
		saved = append(saved, abs)
	}
	return saved, nil
}
