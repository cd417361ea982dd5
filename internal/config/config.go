package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// ErrMissingCredential reports that an API key required by a command is unset.
var ErrMissingCredential = errors.New("credential missing")

// AssemblyAI contains configuration for the transcription API.
type AssemblyAI struct {
	APIKey              string `toml:"api_key"`
	BaseURL             string `toml:"base_url"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	TimeoutSeconds      int    `toml:"timeout_seconds"`
	SpeakerLabels       bool   `toml:"speaker_labels"`
}

// Gemini contains configuration for the native Gemini image API.
type Gemini struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Gateway contains configuration for the OpenAI-compatible image gateway.
type Gateway struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Images contains output and compression settings for generated images.
type Images struct {
	Provider       string  `toml:"provider"`
	Compress       bool    `toml:"compress"`
	MaxSizeMB      float64 `toml:"max_size_mb"`
	QualityMin     int     `toml:"quality_min"`
	QualityMax     int     `toml:"quality_max"`
	PngquantBinary string  `toml:"pngquant_binary"`
}

// Resend contains configuration for transactional email delivery.
type Resend struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	RetryAttempts  int    `toml:"retry_attempts"`
}

// Storage contains configuration for publishing artifacts to S3-compatible storage.
type Storage struct {
	Enabled       bool   `toml:"enabled"`
	Endpoint      string `toml:"endpoint"`
	Region        string `toml:"region"`
	Bucket        string `toml:"bucket"`
	AccessKey     string `toml:"access_key"`
	SecretKey     string `toml:"secret_key"`
	UseSSL        bool   `toml:"use_ssl"`
	Prefix        string `toml:"prefix"`
	PublicBaseURL string `toml:"public_base_url"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Config encapsulates all configuration values for skillbox.
//
// Configuration sections by subsystem:
//   - AssemblyAI: transcription credentials, endpoint and polling
//   - Gemini: native Gemini image model
//   - Gateway: OpenAI-compatible image gateway
//   - Images: resolution provider default and pngquant compression
//   - Resend: transactional email
//   - Storage: optional artifact publishing
//   - Logging: log format, level and optional rotated file
type Config struct {
	AssemblyAI AssemblyAI `toml:"assemblyai"`
	Gemini     Gemini     `toml:"gemini"`
	Gateway    Gateway    `toml:"gateway"`
	Images     Images     `toml:"images"`
	Resend     Resend     `toml:"resend"`
	Storage    Storage    `toml:"storage"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has
// environment fallbacks applied. A missing file is not an error; defaults are used.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	loadDotEnv()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadDotEnv reads .env files from the working directory and the config
// directory. Variables already present in the environment are left alone.
func loadDotEnv() {
	candidates := []string{".env"}
	if dir, err := expandPath(filepath.Dir(defaultConfigPath)); err == nil {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err != nil || info.IsDir() {
			continue
		}
		_ = godotenv.Load(candidate)
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("skillbox.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func missingCredential(key, envVar string) error {
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("%w: %s is required. Set %s env var or edit %s (create with 'skillbox config init')", ErrMissingCredential, key, envVar, defaultPath)
}

// RequireAssemblyAI reports whether transcription credentials are available.
func (c *Config) RequireAssemblyAI() error {
	if strings.TrimSpace(c.AssemblyAI.APIKey) == "" {
		return missingCredential("assemblyai.api_key", envAssemblyAIKey)
	}
	return nil
}

// RequireGemini reports whether native Gemini credentials are available.
func (c *Config) RequireGemini() error {
	if strings.TrimSpace(c.Gemini.APIKey) == "" {
		return missingCredential("gemini.api_key", envGeminiKey)
	}
	return nil
}

// RequireGateway reports whether the image gateway is usable.
func (c *Config) RequireGateway() error {
	if strings.TrimSpace(c.Gateway.APIKey) == "" {
		return missingCredential("gateway.api_key", envGatewayKey)
	}
	if strings.TrimSpace(c.Gateway.BaseURL) == "" {
		return fmt.Errorf("gateway.base_url is required. Set %s env var or edit the config file", envGatewayBaseURL)
	}
	return nil
}

// RequireResend reports whether email credentials are available.
func (c *Config) RequireResend() error {
	if strings.TrimSpace(c.Resend.APIKey) == "" {
		return missingCredential("resend.api_key", envResendKey)
	}
	return nil
}
