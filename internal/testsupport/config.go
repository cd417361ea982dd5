package testsupport

import (
	"path/filepath"
	"testing"

	"skillbox/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a validated default config with placeholder credentials
// for every provider and a log file under a per-test temp directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.AssemblyAI.APIKey = "test-assemblyai"
	cfgVal.Gemini.APIKey = "test-gemini"
	cfgVal.Gateway.APIKey = "test-gateway"
	cfgVal.Gateway.BaseURL = "http://127.0.0.1:0/v1"
	cfgVal.Resend.APIKey = "test-resend"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithLogFile routes logs to a file inside the test's temp directory.
func WithLogFile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.File = filepath.Join(b.baseDir, "logs", "skillbox.log")
	}
}

// WithImageProvider selects the image provider.
func WithImageProvider(provider string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Images.Provider = provider
	}
}

// WithServiceURL points every HTTP provider at the same test server.
func WithServiceURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.AssemblyAI.BaseURL = url
		b.cfg.Gemini.BaseURL = url
		b.cfg.Gateway.BaseURL = url
		b.cfg.Resend.BaseURL = url
	}
}

// WithCompression toggles pngquant compression and sets its size limit.
func WithCompression(enabled bool, maxSizeMB float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Images.Compress = enabled
		if maxSizeMB > 0 {
			b.cfg.Images.MaxSizeMB = maxSizeMB
		}
	}
}
