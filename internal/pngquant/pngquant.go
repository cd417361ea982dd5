package pngquant

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/dustin/go-humanize"

	"skillbox/internal/deps"
	"skillbox/internal/fileutil"
	"skillbox/internal/logging"
)

const (
	bytesPerMB       = 1024 * 1024
	defaultBinary    = "pngquant"
	defaultMaxSizeMB = 8.0
)

// Skip reasons reported in Result.Skipped.
const (
	SkipDisabled   = "compression disabled"
	SkipMissing    = "pngquant not installed"
	SkipUnderLimit = "already under size limit"
	SkipToolFailed = "pngquant failed"
)

// Options controls when and how pngquant runs.
type Options struct {
	Enabled    bool
	Binary     string
	MaxSizeMB  float64
	QualityMin int
	QualityMax int
}

// Result describes what happened to a file.
type Result struct {
	Path    string
	Applied bool
	Skipped string
	Before  int64
	After   int64
	Warning string
}

// Compressor runs pngquant in place on files that exceed the size limit.
type Compressor struct {
	opts   Options
	logger *slog.Logger
}

// New builds a compressor, filling unset options with defaults.
func New(opts Options, logger *slog.Logger) *Compressor {
	if strings.TrimSpace(opts.Binary) == "" {
		opts.Binary = defaultBinary
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = defaultMaxSizeMB
	}
	if opts.QualityMin == 0 && opts.QualityMax == 0 {
		opts.QualityMin, opts.QualityMax = 65, 95
	}
	return &Compressor{opts: opts, logger: logging.NewComponentLogger(logger, "pngquant")}
}

// Args returns the pngquant argument list for path.
func (c *Compressor) Args(path string) []string {
	return []string{
		fmt.Sprintf("--quality=%d-%d", c.opts.QualityMin, c.opts.QualityMax),
		"--force",
		"--output", path,
		path,
	}
}

// Compress overwrites path with a quantized version when it is larger than
// the configured limit. A missing binary, a small file and a pngquant
// failure are all skips; only an unreadable file is an error.
func (c *Compressor) Compress(ctx context.Context, path string) (Result, error) {
	result := Result{Path: path}
	if !c.opts.Enabled {
		result.Skipped = SkipDisabled
		return result, nil
	}

	status := deps.CheckBinary(deps.PngquantRequirement(c.opts.Binary))
	if !status.Available {
		result.Skipped = SkipMissing
		c.logger.Info("pngquant not installed, skipping compression", "hint", "install with: brew install pngquant")
		return result, nil
	}

	before, err := fileutil.FileSize(path)
	if err != nil {
		return result, fmt.Errorf("compress %s: %w", path, err)
	}
	result.Before = before
	result.After = before

	limit := int64(c.opts.MaxSizeMB * bytesPerMB)
	if before <= limit {
		result.Skipped = SkipUnderLimit
		c.logger.Info(fmt.Sprintf("Image size (%s) already under %.1fMB, skipping compression", humanize.IBytes(uint64(before)), c.opts.MaxSizeMB))
		return result, nil
	}

	c.logger.Info(fmt.Sprintf("Compressing %s image (target: <%.1fMB)...", humanize.IBytes(uint64(before)), c.opts.MaxSizeMB))
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, status.Path, c.Args(path)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Skipped = SkipToolFailed
		result.Warning = strings.TrimSpace(stderr.String())
		if result.Warning == "" {
			result.Warning = err.Error()
		}
		c.logger.Warn("compression warning", "path", path, logging.Error(err), "stderr", result.Warning)
		return result, nil
	}

	after, err := fileutil.FileSize(path)
	if err != nil {
		return result, fmt.Errorf("compress %s: %w", path, err)
	}
	result.Applied = true
	result.After = after
	c.logger.Info(fmt.Sprintf("Compressed: %s -> %s", humanize.IBytes(uint64(before)), humanize.IBytes(uint64(after))))
	return result, nil
}
