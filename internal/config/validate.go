package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Credentials are checked by the
// Require* helpers when a command needs them, not here.
func (c *Config) Validate() error {
	if err := c.validateAssemblyAI(); err != nil {
		return err
	}
	if err := c.validateImageServices(); err != nil {
		return err
	}
	if err := c.validateImages(); err != nil {
		return err
	}
	if err := c.validateResend(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAssemblyAI() error {
	if c.AssemblyAI.PollIntervalSeconds <= 0 {
		return errors.New("assemblyai.poll_interval_seconds must be positive")
	}
	if c.AssemblyAI.TimeoutSeconds <= 0 {
		return errors.New("assemblyai.timeout_seconds must be positive")
	}
	if !strings.HasPrefix(c.AssemblyAI.BaseURL, "http://") && !strings.HasPrefix(c.AssemblyAI.BaseURL, "https://") {
		return fmt.Errorf("assemblyai.base_url must be an http(s) URL, got %q", c.AssemblyAI.BaseURL)
	}
	return nil
}

func (c *Config) validateImageServices() error {
	if c.Gemini.TimeoutSeconds <= 0 {
		return errors.New("gemini.timeout_seconds must be positive")
	}
	if c.Gateway.TimeoutSeconds <= 0 {
		return errors.New("gateway.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateImages() error {
	switch c.Images.Provider {
	case ProviderGemini, ProviderGateway:
	default:
		return fmt.Errorf("images.provider must be %q or %q, got %q", ProviderGemini, ProviderGateway, c.Images.Provider)
	}
	if c.Images.MaxSizeMB <= 0 {
		return errors.New("images.max_size_mb must be positive")
	}
	if c.Images.QualityMin < 0 || c.Images.QualityMax > 100 || c.Images.QualityMin > c.Images.QualityMax {
		return fmt.Errorf("images.quality_min/quality_max must satisfy 0 <= min <= max <= 100, got %d-%d", c.Images.QualityMin, c.Images.QualityMax)
	}
	return nil
}

func (c *Config) validateResend() error {
	if c.Resend.TimeoutSeconds <= 0 {
		return errors.New("resend.timeout_seconds must be positive")
	}
	if c.Resend.RetryAttempts < 1 {
		return errors.New("resend.retry_attempts must be at least 1")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if !c.Storage.Enabled {
		return nil
	}
	if c.Storage.Endpoint == "" {
		return errors.New("storage.endpoint is required when storage is enabled")
	}
	if strings.Contains(c.Storage.Endpoint, "://") {
		return fmt.Errorf("storage.endpoint must be host[:port] without a scheme, got %q", c.Storage.Endpoint)
	}
	if c.Storage.Bucket == "" {
		return errors.New("storage.bucket is required when storage is enabled")
	}
	if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
		return errors.New("storage.access_key and storage.secret_key are required when storage is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
