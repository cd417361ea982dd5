package resend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSendPostsEmail(t *testing.T) {
	var captured Email
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer re_test" {
			t.Fatalf("unexpected auth header %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "skillbox/test" {
			t.Fatalf("unexpected user agent %q", got)
		}
		if got := r.Header.Get("Idempotency-Key"); got != "key-1" {
			t.Fatalf("unexpected idempotency key %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		_, _ = io.WriteString(w, `{"id":"email_123"}`)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "re_test", BaseURL: server.URL, UserAgent: "skillbox/test"})
	result, err := client.Send(context.Background(), Email{
		From:    "me@example.com",
		To:      []string{"a@example.com"},
		Subject: "hi",
		Text:    "hello",
	}, "key-1")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if result.ID != "email_123" {
		t.Fatalf("unexpected id %q", result.ID)
	}
	if captured.Subject != "hi" || captured.Text != "hello" || captured.HTML != "" {
		t.Fatalf("unexpected payload %+v", captured)
	}
}

func TestSendGeneratesIdempotencyKey(t *testing.T) {
	var key string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("Idempotency-Key")
		_, _ = io.WriteString(w, `{"id":"x"}`)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	if _, err := client.Send(context.Background(), Email{}, ""); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if len(key) != 36 {
		t.Fatalf("expected uuid idempotency key, got %q", key)
	}
}

func TestSendReturnsJSONAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"statusCode":422,"name":"validation_error","message":"Invalid from"}`)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL}, WithSleeper(func(time.Duration) {
		t.Fatal("422 must not be retried")
	}))
	_, err := client.Send(context.Background(), Email{}, "key")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	body, ok := apiErr.Body.(map[string]any)
	if !ok || body["message"] != "Invalid from" {
		t.Fatalf("unexpected decoded body %#v", apiErr.Body)
	}
}

func TestSendReturnsRawAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, "forbidden by proxy")
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	_, err := client.Send(context.Background(), Email{}, "key")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Body != "forbidden by proxy" {
		t.Fatalf("expected raw APIError body, got %v", err)
	}
	if apiErr.Error() != "resend request: http 403: forbidden by proxy" {
		t.Fatalf("unexpected message %q", apiErr.Error())
	}
}

func TestSendRetriesRateLimitWithSameKey(t *testing.T) {
	var calls int
	var keys []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		if calls == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"message":"slow down"}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":"after-retry"}`)
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "k", BaseURL: server.URL},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(0, 10*time.Second),
	)
	result, err := client.Send(context.Background(), Email{}, "")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if result.ID != "after-retry" || calls != 2 {
		t.Fatalf("unexpected result %+v after %d calls", result, calls)
	}
	if keys[0] == "" || keys[0] != keys[1] {
		t.Fatalf("idempotency key must be stable across retries, got %v", keys)
	}
	if len(slept) != 1 || slept[0] != 2*time.Second {
		t.Fatalf("expected single sleep of 2s, got %v", slept)
	}
}

func TestSendGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "k", BaseURL: server.URL},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryMaxAttempts(3),
		WithRetryBackoff(time.Second, 10*time.Second),
	)
	_, err := client.Send(context.Background(), Email{}, "key")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502 APIError, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if len(slept) != 2 || slept[0] != time.Second || slept[1] != 2*time.Second {
		t.Fatalf("unexpected backoff %v", slept)
	}
}

func TestSendRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.Send(context.Background(), Email{}, ""); err == nil {
		t.Fatal("expected error without api key")
	}
}
