package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"skillbox/internal/imagegen"
)

const (
	defaultModel       = "gemini-3-pro-image-preview"
	defaultHTTPTimeout = 180 * time.Second
)

var resolutions = []string{"1K", "2K", "4K"}

// Config captures the settings required to reach the Gemini API.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Client generates images through the native Gemini generateContent API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	models     *genai.Models
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a Gemini client. The SDK client is created eagerly so
// configuration problems surface before any prompt is sent.
func NewClient(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.Model == "" {
		client.cfg.Model = defaultModel
	}
	if client.cfg.APIKey == "" {
		return nil, errors.New("gemini client: api key required")
	}

	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      client.cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  client.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: client.cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	client.models = sdk.Models
	return client, nil
}

// Name identifies the provider in logs and errors.
func (c *Client) Name() string {
	return "gemini"
}

// Resolutions lists the image sizes the model accepts.
func (c *Client) Resolutions() []string {
	return append([]string(nil), resolutions...)
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Generate sends [image, prompt] when editing and [prompt] otherwise, asking
// for both text and image modalities at the requested size.
func (c *Client) Generate(ctx context.Context, req imagegen.Request) (imagegen.Result, error) {
	var result imagegen.Result
	if strings.TrimSpace(req.Prompt) == "" {
		return result, imagegen.ErrPromptRequired
	}

	parts := make([]*genai.Part, 0, 2)
	if req.Input != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Input.Data, req.Input.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		ImageConfig:        &genai.ImageConfig{ImageSize: req.Resolution},
	}

	resp, err := c.models.GenerateContent(ctx, c.cfg.Model, contents, config)
	if err != nil {
		return result, fmt.Errorf("gemini generate: %w", err)
	}
	return collectParts(resp), nil
}

func collectParts(resp *genai.GenerateContentResponse) imagegen.Result {
	var result imagegen.Result
	if resp == nil {
		return result
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			switch {
			case part.Text != "":
				result.Texts = append(result.Texts, part.Text)
			case part.InlineData != nil && len(part.InlineData.Data) > 0:
				result.Images = append(result.Images, imagegen.Image{
					Data:     part.InlineData.Data,
					MIMEType: part.InlineData.MIMEType,
				})
			}
		}
	}
	return result
}
