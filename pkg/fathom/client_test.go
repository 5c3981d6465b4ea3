package fathom

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/omerharel/minuteflow/errors"
	"github.com/omerharel/minuteflow/pkg/config"
)

const transcriptBody = `{
	"title": "Q3 Planning",
	"date": "2026-08-12T09:00:00Z",
	"duration": 1800,
	"transcript": [
		{"speaker": {"display_name": "Omer Harel", "matched_calendar_invitee_email": "omer@example.com"}, "timestamp": "00:00:05", "text": "Let's get started."},
		{"speaker": {"display_name": "Dana Levi"}, "timestamp": "00:00:12", "text": "Sounds good."}
	]
}`

func newTestClient(url string) *Client {
	return NewClient(&config.FathomConfig{APIKey: "test-key", BaseURL: url, TimeoutSeconds: 5})
}

func TestFetchTranscript_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("expected GET got %s", r.Method)
		}
		if r.URL.Path != "/recordings/119611450/transcript" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Fatalf("missing api key header")
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(transcriptBody))
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	transcript, raw, err := client.FetchTranscript(context.Background(), "119611450")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if transcript.RecordingID != "119611450" {
		t.Fatalf("unexpected recording id %s", transcript.RecordingID)
	}
	if transcript.Title != "Q3 Planning" {
		t.Fatalf("unexpected title %s", transcript.Title)
	}
	if len(transcript.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(transcript.Segments))
	}
	if len(raw) == 0 {
		t.Fatal("expected raw body to be returned")
	}
}

func TestFetchTranscript_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		code   apperrors.ErrorCode
	}{
		{"unauthorized", http.StatusUnauthorized, apperrors.ErrorCode_AUTH_FAILED},
		{"forbidden", http.StatusForbidden, apperrors.ErrorCode_AUTH_FAILED},
		{"not found", http.StatusNotFound, apperrors.ErrorCode_NOT_FOUND},
		{"rate limited", http.StatusTooManyRequests, apperrors.ErrorCode_RATE_LIMITED},
		{"server error", http.StatusInternalServerError, apperrors.ErrorCode_TRANSPORT_FAILED},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer ts.Close()

			client := newTestClient(ts.URL)
			_, _, err := client.FetchTranscript(context.Background(), "123")
			if err == nil {
				t.Fatalf("expected error for status %d", tc.status)
			}
			if got := apperrors.CodeOf(err); got != tc.code {
				t.Fatalf("expected code %v, got %v", tc.code, got)
			}
		})
	}
}

func TestFetchTranscript_ConnectionRefused(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	_, _, err := client.FetchTranscript(context.Background(), "123")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if apperrors.CodeOf(err) != apperrors.ErrorCode_TRANSPORT_FAILED {
		t.Fatalf("expected TRANSPORT_FAILED, got %v", apperrors.CodeOf(err))
	}
	if !apperrors.IsRetryable(err) {
		t.Fatal("transport errors should be retryable")
	}
}

func TestFetchTranscript_InvalidJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	_, _, err := client.FetchTranscript(context.Background(), "123")
	if err == nil {
		t.Fatal("expected error for invalid JSON body")
	}
	if apperrors.CodeOf(err) != apperrors.ErrorCode_TRANSPORT_FAILED {
		t.Fatalf("expected TRANSPORT_FAILED, got %v", apperrors.CodeOf(err))
	}
}
