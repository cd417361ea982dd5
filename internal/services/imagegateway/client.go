package imagegateway

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"skillbox/internal/imagegen"
)

const (
	defaultModel       = "gemini-3.1-flash-image-preview"
	defaultHTTPTimeout = 180 * time.Second
)

var resolutions = []string{"0.5K", "1K", "2K", "4K"}

// Config captures the settings required to reach the gateway.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Client generates images through an OpenAI-compatible chat completions
// gateway that fronts a Gemini image model.
type Client struct {
	cfg        Config
	httpClient *http.Client
	sdk        openai.Client
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

// NewClient constructs a gateway client. The key is sent both as a bearer
// token and as an "apikey" header since gateways differ in which they read.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
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
		return nil, errors.New("image gateway client: api key required")
	}
	if client.cfg.BaseURL == "" {
		return nil, errors.New("image gateway client: base url required")
	}

	client.sdk = openai.NewClient(
		option.WithAPIKey(client.cfg.APIKey),
		option.WithBaseURL(client.cfg.BaseURL),
		option.WithHeader("apikey", client.cfg.APIKey),
		option.WithHTTPClient(client.httpClient),
		option.WithMaxRetries(0),
	)
	return client, nil
}

// Name identifies the provider in logs and errors.
func (c *Client) Name() string {
	return "gateway"
}

// Resolutions lists the image sizes the gateway accepts.
func (c *Client) Resolutions() []string {
	return append([]string(nil), resolutions...)
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Generate issues one chat completion. Edits send the input image as a PNG
// data URI followed by the prompt text; plain generation sends the prompt as
// the message content.
func (c *Client) Generate(ctx context.Context, req imagegen.Request) (imagegen.Result, error) {
	var result imagegen.Result
	if strings.TrimSpace(req.Prompt) == "" {
		return result, imagegen.ErrPromptRequired
	}

	var message openai.ChatCompletionMessageParamUnion
	if req.Input != nil {
		dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(req.Input.Data)
		message = openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURI}),
			openai.TextContentPart(req.Prompt),
		})
	} else {
		message = openai.UserMessage(req.Prompt)
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{message},
	}
	completion, err := c.sdk.Chat.Completions.New(ctx, params,
		option.WithJSONSet("response_modalities", []string{"TEXT", "IMAGE"}),
		option.WithJSONSet("image_config", map[string]string{"image_size": req.Resolution}),
	)
	if err != nil {
		return result, fmt.Errorf("image gateway generate: %w", err)
	}

	for _, choice := range completion.Choices {
		if choice.Message.Content == "" {
			continue
		}
		parsed, err := ParseContent(choice.Message.Content)
		if err != nil {
			return result, fmt.Errorf("image gateway generate: %w", err)
		}
		result.Texts = append(result.Texts, parsed.Texts...)
		result.Images = append(result.Images, parsed.Images...)
	}
	return result, nil
}
