package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultBaseURL        = "https://api.resend.com"
	defaultUserAgent      = "skillbox/dev"
	defaultHTTPTimeout    = 30 * time.Second
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second
)

// Config captures the runtime settings required to talk to Resend.
type Config struct {
	APIKey         string
	BaseURL        string
	UserAgent      string
	TimeoutSeconds int
}

// Client sends transactional email through the Resend REST API.
type Client struct {
	cfg        Config
	httpClient *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
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

// WithRetryMaxAttempts overrides the default attempt count (defaults to 3).
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs a Resend client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			UserAgent:      strings.TrimSpace(cfg.UserAgent),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.UserAgent == "" {
		client.cfg.UserAgent = defaultUserAgent
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// SendResult is the decoded success body.
type SendResult struct {
	ID string `json:"id"`
}

// APIError is a non-2xx response. Body holds the decoded JSON error object,
// or the raw text when the body is not JSON.
type APIError struct {
	StatusCode int
	Body       any
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	var detail string
	switch body := e.Body.(type) {
	case string:
		detail = strings.TrimSpace(body)
	default:
		encoded, err := json.Marshal(body)
		if err != nil {
			detail = fmt.Sprint(body)
		} else {
			detail = string(encoded)
		}
	}
	return fmt.Sprintf("resend request: http %d: %s", e.StatusCode, detail)
}

// NewIdempotencyKey returns a random key for one logical send.
func NewIdempotencyKey() string {
	return uuid.NewString()
}

// Send posts the email. The same idempotency key is reused across retries
// so the API delivers at most once; an empty key gets a random one.
func (c *Client) Send(ctx context.Context, email Email, idempotencyKey string) (SendResult, error) {
	if c.cfg.APIKey == "" {
		return SendResult{}, errors.New("resend send: api key required")
	}
	encoded, err := json.Marshal(email)
	if err != nil {
		return SendResult{}, fmt.Errorf("resend send: encode body: %w", err)
	}
	if strings.TrimSpace(idempotencyKey) == "" {
		idempotencyKey = NewIdempotencyKey()
	}

	attempts := c.retryAttempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := c.sendOnce(ctx, encoded, idempotencyKey)
		if err == nil {
			return result, nil
		}
		delay, retry := c.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			return SendResult{}, err
		}
		if err := c.sleep(ctx, delay); err != nil {
			return SendResult{}, err
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("unknown retry failure")
	}
	return SendResult{}, fmt.Errorf("resend send: failed after %d attempts: %w", attempts, lastErr)
}

func (c *Client) sendOnce(ctx context.Context, body []byte, idempotencyKey string) (SendResult, error) {
	var result SendResult
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "emails")
	if err != nil {
		return result, fmt.Errorf("resend request: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return result, fmt.Errorf("resend request: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return result, fmt.Errorf("resend request: http error (timeout=%s): %w", c.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, fmt.Errorf("resend request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return result, &APIError{
			StatusCode: resp.StatusCode,
			Body:       decodeErrorBody(payload),
			RetryAfter: retryAfter,
		}
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		return result, fmt.Errorf("resend request: decode response: %w", err)
	}
	return result, nil
}

func decodeErrorBody(payload []byte) any {
	var decoded any
	if err := json.Unmarshal(payload, &decoded); err == nil {
		return decoded
	}
	return string(payload)
}
