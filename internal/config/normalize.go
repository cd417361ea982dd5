package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeAssemblyAI()
	c.normalizeGemini()
	c.normalizeGateway()
	c.normalizeImages()
	c.normalizeResend()
	c.normalizeStorage()
	return c.normalizeLogging()
}

// envOverride returns the first non-empty environment value among keys, or
// current when none are set. Environment variables take precedence over the
// config file so secrets can stay out of it.
func envOverride(current string, keys ...string) string {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return strings.TrimSpace(current)
}

func (c *Config) normalizeAssemblyAI() {
	c.AssemblyAI.APIKey = envOverride(c.AssemblyAI.APIKey, envAssemblyAIKey)
	c.AssemblyAI.BaseURL = strings.TrimRight(strings.TrimSpace(c.AssemblyAI.BaseURL), "/")
	if c.AssemblyAI.BaseURL == "" {
		c.AssemblyAI.BaseURL = defaultAssemblyAIBaseURL
	}
	if c.AssemblyAI.PollIntervalSeconds == 0 {
		c.AssemblyAI.PollIntervalSeconds = defaultAssemblyAIPollInterval
	}
	if c.AssemblyAI.TimeoutSeconds == 0 {
		c.AssemblyAI.TimeoutSeconds = defaultAssemblyAITimeout
	}
}

func (c *Config) normalizeGemini() {
	c.Gemini.APIKey = envOverride(c.Gemini.APIKey, envGeminiKey)
	c.Gemini.BaseURL = strings.TrimSpace(c.Gemini.BaseURL)
	c.Gemini.Model = strings.TrimSpace(c.Gemini.Model)
	if c.Gemini.Model == "" {
		c.Gemini.Model = defaultGeminiModel
	}
	if c.Gemini.TimeoutSeconds == 0 {
		c.Gemini.TimeoutSeconds = defaultGeminiTimeout
	}
}

func (c *Config) normalizeGateway() {
	c.Gateway.APIKey = envOverride(c.Gateway.APIKey, envGatewayKey, envGatewayKeyLegacy)
	c.Gateway.BaseURL = envOverride(c.Gateway.BaseURL, envGatewayBaseURL)
	c.Gateway.Model = strings.TrimSpace(c.Gateway.Model)
	if c.Gateway.Model == "" {
		c.Gateway.Model = defaultGatewayModel
	}
	if c.Gateway.TimeoutSeconds == 0 {
		c.Gateway.TimeoutSeconds = defaultGatewayTimeout
	}
}

func (c *Config) normalizeImages() {
	c.Images.Provider = strings.ToLower(strings.TrimSpace(c.Images.Provider))
	if c.Images.Provider == "" {
		c.Images.Provider = defaultImageProvider
	}
	if c.Images.MaxSizeMB == 0 {
		c.Images.MaxSizeMB = defaultImageMaxSizeMB
	}
	if c.Images.QualityMin == 0 && c.Images.QualityMax == 0 {
		c.Images.QualityMin = defaultImageQualityMin
		c.Images.QualityMax = defaultImageQualityMax
	}
	c.Images.PngquantBinary = strings.TrimSpace(c.Images.PngquantBinary)
	if c.Images.PngquantBinary == "" {
		c.Images.PngquantBinary = defaultPngquantBinary
	}
}

func (c *Config) normalizeResend() {
	c.Resend.APIKey = envOverride(c.Resend.APIKey, envResendKey)
	c.Resend.BaseURL = strings.TrimRight(strings.TrimSpace(c.Resend.BaseURL), "/")
	if c.Resend.BaseURL == "" {
		c.Resend.BaseURL = defaultResendBaseURL
	}
	c.Resend.UserAgent = strings.TrimSpace(c.Resend.UserAgent)
	if c.Resend.UserAgent == "" {
		c.Resend.UserAgent = defaultResendUserAgent
	}
	if c.Resend.TimeoutSeconds == 0 {
		c.Resend.TimeoutSeconds = defaultResendTimeout
	}
	if c.Resend.RetryAttempts == 0 {
		c.Resend.RetryAttempts = defaultResendRetryAttempts
	}
}

func (c *Config) normalizeStorage() {
	c.Storage.Endpoint = envOverride(c.Storage.Endpoint, envStorageEndpoint)
	c.Storage.AccessKey = envOverride(c.Storage.AccessKey, envStorageAccessKey)
	c.Storage.SecretKey = envOverride(c.Storage.SecretKey, envStorageSecretKey)
	c.Storage.Bucket = envOverride(c.Storage.Bucket, envStorageBucket)
	c.Storage.Region = envOverride(c.Storage.Region, envStorageRegion)
	c.Storage.Prefix = strings.Trim(strings.TrimSpace(c.Storage.Prefix), "/")
	c.Storage.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.Storage.PublicBaseURL), "/")
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		expanded, err := expandPath(strings.TrimSpace(c.Logging.File))
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
	return nil
}
