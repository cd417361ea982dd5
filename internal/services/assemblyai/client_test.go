package assemblyai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func noSleep(context.Context, time.Duration) error { return nil }

func TestUploadSendsRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/upload" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "secret" {
			t.Fatalf("expected raw api key in Authorization, got %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "RIFFdata" {
			t.Fatalf("unexpected body %q", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/upload/1"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "secret", BaseURL: server.URL + "/v2"})
	uploadURL, err := client.Upload(context.Background(), strings.NewReader("RIFFdata"), 8)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if uploadURL != "https://cdn.example/upload/1" {
		t.Fatalf("unexpected upload url %q", uploadURL)
	}
}

func TestSubmitPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcript" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %q", ct)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload["audio_url"] != "https://example.com/a.mp3" {
			t.Fatalf("unexpected audio_url %v", payload["audio_url"])
		}
		if payload["speaker_labels"] != true {
			t.Fatalf("expected speaker_labels true, got %v", payload["speaker_labels"])
		}
		if payload["speakers_expected"] != float64(3) {
			t.Fatalf("expected speakers_expected 3, got %v", payload["speakers_expected"])
		}
		if _, ok := payload["language_code"]; ok {
			t.Fatalf("expected language_code omitted, got %v", payload["language_code"])
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "tr_123", "status": "queued"})
	}))
	defer server.Close()

	speakers := 3
	client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	id, err := client.Submit(context.Background(), TranscriptRequest{
		AudioURL:         "https://example.com/a.mp3",
		SpeakerLabels:    true,
		SpeakersExpected: &speakers,
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if id != "tr_123" {
		t.Fatalf("unexpected id %q", id)
	}
}

func TestSubmitPropagatesErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "Authentication error, API token missing/invalid"}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL})
	_, err := client.Submit(context.Background(), TranscriptRequest{AudioURL: "https://example.com/a.mp3"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", statusErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "API token missing/invalid") {
		t.Fatalf("expected remote body in error, got %q", err.Error())
	}
}

func TestWaitPollsUntilCompleted(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/transcript/tr_1" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		calls++
		status := StatusQueued
		switch {
		case calls == 2:
			status = StatusProcessing
		case calls >= 3:
			status = StatusCompleted
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "tr_1",
			"status": status,
			"text":   "hello there",
			"utterances": []map[string]any{
				{"speaker": "A", "text": "hello there", "start": 0, "end": 1200},
			},
		})
	}))
	defer server.Close()

	var delays []time.Duration
	client := NewClient(Config{APIKey: "k", BaseURL: server.URL}, WithSleeper(func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}))
	var seen []string
	transcript, err := client.Wait(context.Background(), "tr_1", 2*time.Second, func(status string) {
		seen = append(seen, status)
	})
	if err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if transcript.Status != StatusCompleted || len(transcript.Utterances) != 1 {
		t.Fatalf("unexpected transcript %+v", transcript)
	}
	if strings.Join(seen, ",") != "queued,processing" {
		t.Fatalf("unexpected observed statuses %v", seen)
	}
	if len(delays) != 2 || delays[0] != 2*time.Second {
		t.Fatalf("expected two fixed 2s delays, got %v", delays)
	}
}

func TestWaitReturnsJobError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "tr_2", "status": StatusFailed})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL}, WithSleeper(noSleep))
	_, err := client.Wait(context.Background(), "tr_2", time.Second, nil)
	var jobErr *JobError
	if !errors.As(err, &jobErr) {
		t.Fatalf("expected JobError, got %v", err)
	}
	if err.Error() != "Transcription failed: unknown error" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Fatalf("job failure must not surface as an HTTP StatusError: %v", err)
	}
}

func TestFailedJobStateMatchesWireValue(t *testing.T) {
	var transcript Transcript
	if err := json.Unmarshal([]byte(`{"id":"tr_3","status":"error","error":"bad audio"}`), &transcript); err != nil {
		t.Fatalf("decode transcript: %v", err)
	}
	if transcript.Status != StatusFailed {
		t.Fatalf("status %q does not match StatusFailed", transcript.Status)
	}
}

func TestWaitHonoursCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "tr_3", "status": "processing"})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(Config{APIKey: "k", BaseURL: server.URL}, WithSleeper(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}))
	_, err := client.Wait(ctx, "tr_3", time.Second, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRequestsRequireAPIKey(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.Submit(context.Background(), TranscriptRequest{AudioURL: "https://x"}); err == nil {
		t.Fatal("expected error without api key")
	}
	if _, err := client.Upload(context.Background(), strings.NewReader("x"), 1); err == nil {
		t.Fatal("expected error without api key")
	}
}
