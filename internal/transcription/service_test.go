package transcription

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"skillbox/internal/logging"
	"skillbox/internal/services/assemblyai"
)

type fakeProvider struct {
	uploaded  []byte
	submitted assemblyai.TranscriptRequest
	interval  time.Duration
	statuses  []string
	result    assemblyai.Transcript
	err       error
}

func (f *fakeProvider) Upload(_ context.Context, body io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.uploaded = data
	return "https://cdn.example/upload/1", nil
}

func (f *fakeProvider) Submit(_ context.Context, request assemblyai.TranscriptRequest) (string, error) {
	f.submitted = request
	return "tr_42", nil
}

func (f *fakeProvider) Wait(_ context.Context, id string, interval time.Duration, onStatus func(string)) (assemblyai.Transcript, error) {
	f.interval = interval
	for _, status := range f.statuses {
		onStatus(status)
	}
	if f.err != nil {
		return assemblyai.Transcript{}, f.err
	}
	result := f.result
	result.ID = id
	return result, nil
}

func TestTranscribeUploadsLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	input, err := ValidateInput(path)
	if err != nil {
		t.Fatalf("ValidateInput: %v", err)
	}

	provider := &fakeProvider{
		statuses: []string{"queued", "processing"},
		result:   assemblyai.Transcript{Status: assemblyai.StatusCompleted, Text: "hi"},
	}
	wrapped := false
	svc := NewService(provider, logging.NewNop(), WithUploadWrapper(func(r io.Reader, size int64) io.Reader {
		wrapped = true
		if size != 4 {
			t.Errorf("wrapper size = %d, want 4", size)
		}
		return r
	}))

	transcript, err := svc.Transcribe(context.Background(), Request{
		Input:            input,
		SpeakerLabels:    true,
		SpeakersExpected: 2,
		PollInterval:     time.Second,
	})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if !wrapped {
		t.Fatal("expected upload wrapper to be used")
	}
	if string(provider.uploaded) != "RIFF" {
		t.Fatalf("unexpected upload body %q", provider.uploaded)
	}
	if provider.submitted.AudioURL != "https://cdn.example/upload/1" {
		t.Fatalf("expected uploaded URL to be submitted, got %q", provider.submitted.AudioURL)
	}
	if provider.submitted.SpeakersExpected == nil || *provider.submitted.SpeakersExpected != 2 {
		t.Fatalf("expected speakers_expected=2, got %+v", provider.submitted.SpeakersExpected)
	}
	if provider.interval != time.Second {
		t.Fatalf("poll interval not forwarded: %v", provider.interval)
	}
	if transcript.ID != "tr_42" || transcript.Text != "hi" {
		t.Fatalf("unexpected transcript %+v", transcript)
	}
}

func TestTranscribeRemoteSkipsUpload(t *testing.T) {
	provider := &fakeProvider{result: assemblyai.Transcript{Status: assemblyai.StatusCompleted}}
	svc := NewService(provider, nil)

	_, err := svc.Transcribe(context.Background(), Request{
		Input:          Input{URL: "https://example.com/a.mp3"},
		DetectLanguage: true,
	})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if provider.uploaded != nil {
		t.Fatal("remote input should not be uploaded")
	}
	if provider.submitted.AudioURL != "https://example.com/a.mp3" {
		t.Fatalf("unexpected audio url %q", provider.submitted.AudioURL)
	}
	if provider.submitted.SpeakersExpected != nil {
		t.Fatal("speakers_expected should be omitted when zero")
	}
	if !provider.submitted.LanguageDetection {
		t.Fatal("expected language detection to be requested")
	}
}

func TestTranscribeExplicitLanguageDisablesDetection(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(provider, nil)
	_, err := svc.Transcribe(context.Background(), Request{
		Input:          Input{URL: "https://example.com/a.mp3"},
		LanguageCode:   "de",
		DetectLanguage: true,
	})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if provider.submitted.LanguageDetection || provider.submitted.LanguageCode != "de" {
		t.Fatalf("unexpected language settings %+v", provider.submitted)
	}
}

func TestTranscribePropagatesJobError(t *testing.T) {
	jobErr := &assemblyai.JobError{TranscriptID: "tr_42", Message: "bad audio"}
	provider := &fakeProvider{err: jobErr}
	svc := NewService(provider, nil)
	_, err := svc.Transcribe(context.Background(), Request{Input: Input{URL: "https://example.com/a.mp3"}})
	var target *assemblyai.JobError
	if !errors.As(err, &target) || target.Message != "bad audio" {
		t.Fatalf("expected JobError, got %v", err)
	}
}
