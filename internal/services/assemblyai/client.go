package assemblyai

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
)

const (
	defaultBaseURL      = "https://api.assemblyai.com/v2"
	defaultHTTPTimeout  = 300 * time.Second
	defaultPollInterval = 5 * time.Second
)

// Job states reported by the transcript endpoint.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "error"
)

// Config captures the runtime settings required to talk to AssemblyAI.
type Config struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
}

// Client wraps the AssemblyAI v2 REST API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	sleeper    func(context.Context, time.Duration) error
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

// WithSleeper overrides how poll delays are performed (useful for tests).
func WithSleeper(sleeper func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		if sleeper != nil {
			c.sleeper = sleeper
		}
	}
}

// NewClient constructs an AssemblyAI client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
		sleeper:    sleepContext,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	return client
}

// TranscriptRequest is the job submission payload.
type TranscriptRequest struct {
	AudioURL          string `json:"audio_url"`
	SpeakerLabels     bool   `json:"speaker_labels"`
	SpeakersExpected  *int   `json:"speakers_expected,omitempty"`
	LanguageCode      string `json:"language_code,omitempty"`
	LanguageDetection bool   `json:"language_detection,omitempty"`
}

// Utterance is one diarized speaker turn. Start and End are milliseconds.
type Utterance struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Transcript mirrors the fields of the transcript resource used by skillbox.
type Transcript struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"`
	Text          string      `json:"text"`
	Error         string      `json:"error,omitempty"`
	LanguageCode  string      `json:"language_code,omitempty"`
	AudioDuration float64     `json:"audio_duration,omitempty"`
	Utterances    []Utterance `json:"utterances,omitempty"`
}

// StatusError is returned for non-2xx responses and carries the remote body.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: http %d: %s", e.Op, e.StatusCode, strings.TrimSpace(e.Body))
}

// JobError reports a transcript that finished in the error state.
type JobError struct {
	TranscriptID string
	Message      string
}

func (e *JobError) Error() string {
	return fmt.Sprintf("Transcription failed: %s", e.Message)
}

// Upload streams raw audio to AssemblyAI and returns the private upload URL.
func (c *Client) Upload(ctx context.Context, body io.Reader, size int64) (string, error) {
	if body == nil {
		return "", errors.New("assemblyai upload: body required")
	}
	if c.cfg.APIKey == "" {
		return "", errors.New("assemblyai upload: api key required")
	}
	req, err := c.newRequest(ctx, http.MethodPost, "upload", body)
	if err != nil {
		return "", fmt.Errorf("assemblyai upload: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if size > 0 {
		req.ContentLength = size
	}
	var payload struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.do(req, "assemblyai upload", &payload); err != nil {
		return "", err
	}
	if strings.TrimSpace(payload.UploadURL) == "" {
		return "", errors.New("assemblyai upload: response missing upload_url")
	}
	return payload.UploadURL, nil
}

// Submit creates a transcript job and returns its identifier.
func (c *Client) Submit(ctx context.Context, request TranscriptRequest) (string, error) {
	if strings.TrimSpace(request.AudioURL) == "" {
		return "", errors.New("assemblyai submit: audio url required")
	}
	if c.cfg.APIKey == "" {
		return "", errors.New("assemblyai submit: api key required")
	}
	encoded, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("assemblyai submit: encode body: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "transcript", bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("assemblyai submit: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	var transcript Transcript
	if err := c.do(req, "assemblyai submit", &transcript); err != nil {
		return "", err
	}
	if transcript.ID == "" {
		return "", errors.New("assemblyai submit: response missing id")
	}
	return transcript.ID, nil
}

// Get fetches the current state of a transcript job.
func (c *Client) Get(ctx context.Context, id string) (Transcript, error) {
	var transcript Transcript
	id = strings.TrimSpace(id)
	if id == "" {
		return transcript, errors.New("assemblyai get: transcript id required")
	}
	req, err := c.newRequest(ctx, http.MethodGet, "transcript/"+url.PathEscape(id), nil)
	if err != nil {
		return transcript, fmt.Errorf("assemblyai get: %w", err)
	}
	if err := c.do(req, "assemblyai get", &transcript); err != nil {
		return transcript, err
	}
	return transcript, nil
}

// Wait polls the transcript every interval until it completes or fails.
// onStatus, when set, observes every non-terminal status.
func (c *Client) Wait(ctx context.Context, id string, interval time.Duration, onStatus func(string)) (Transcript, error) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	for {
		transcript, err := c.Get(ctx, id)
		if err != nil {
			return transcript, err
		}
		switch transcript.Status {
		case StatusCompleted:
			return transcript, nil
		case StatusFailed:
			message := strings.TrimSpace(transcript.Error)
			if message == "" {
				message = "unknown error"
			}
			return transcript, &JobError{TranscriptID: id, Message: message}
		}
		if onStatus != nil {
			onStatus(transcript.Status)
		}
		if err := c.sleeper(ctx, interval); err != nil {
			return transcript, err
		}
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	endpoint, err := url.JoinPath(c.cfg.BaseURL, path)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, op string, target any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: http error (timeout=%s): %w", op, c.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
