package transcription

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"skillbox/internal/logging"
	"skillbox/internal/services/assemblyai"
)

// Provider is the subset of the AssemblyAI client used by the service.
type Provider interface {
	Upload(ctx context.Context, body io.Reader, size int64) (string, error)
	Submit(ctx context.Context, request assemblyai.TranscriptRequest) (string, error)
	Wait(ctx context.Context, id string, interval time.Duration, onStatus func(string)) (assemblyai.Transcript, error)
}

// Request describes one transcription run.
type Request struct {
	Input            Input
	SpeakerLabels    bool
	SpeakersExpected int
	LanguageCode     string
	DetectLanguage   bool
	PollInterval     time.Duration
}

// UploadWrapper decorates the upload stream, e.g. with a progress bar.
type UploadWrapper func(r io.Reader, size int64) io.Reader

// Service runs the upload -> submit -> poll flow.
type Service struct {
	provider Provider
	logger   *slog.Logger
	wrap     UploadWrapper
}

// Option customizes the service.
type Option func(*Service)

// WithUploadWrapper installs a decorator for local file uploads.
func WithUploadWrapper(wrap UploadWrapper) Option {
	return func(s *Service) {
		s.wrap = wrap
	}
}

// NewService builds a transcription service.
func NewService(provider Provider, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		logger:   logging.NewComponentLogger(logger, "transcribe"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transcribe uploads local audio when needed, submits the job, and blocks
// until the transcript completes or fails.
func (s *Service) Transcribe(ctx context.Context, req Request) (assemblyai.Transcript, error) {
	audioURL := req.Input.URL
	if !req.Input.IsRemote() {
		uploaded, err := s.upload(ctx, req.Input)
		if err != nil {
			return assemblyai.Transcript{}, err
		}
		audioURL = uploaded
	}

	payload := assemblyai.TranscriptRequest{
		AudioURL:          audioURL,
		SpeakerLabels:     req.SpeakerLabels,
		LanguageCode:      req.LanguageCode,
		LanguageDetection: req.DetectLanguage && req.LanguageCode == "",
	}
	if req.SpeakersExpected > 0 {
		speakers := req.SpeakersExpected
		payload.SpeakersExpected = &speakers
	}

	s.logger.Info("Submitting transcription job")
	id, err := s.provider.Submit(ctx, payload)
	if err != nil {
		return assemblyai.Transcript{}, err
	}
	s.logger.Info("Transcript submitted", "transcript_id", id)

	return s.provider.Wait(ctx, id, req.PollInterval, func(status string) {
		s.logger.Info(fmt.Sprintf("Status: %s...", status), "transcript_id", id)
	})
}

func (s *Service) upload(ctx context.Context, input Input) (string, error) {
	file, err := os.Open(input.Path)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer file.Close()

	s.logger.Info(fmt.Sprintf("Uploading %s (%s)...", filepath.Base(input.Path), humanize.Bytes(uint64(max(input.Size, 0)))))

	var body io.Reader = file
	if s.wrap != nil {
		body = s.wrap(file, input.Size)
	}
	return s.provider.Upload(ctx, body, input.Size)
}
