package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/omerharel/minuteflow/errors"
	"github.com/omerharel/minuteflow/pkg/config"
)

func newTestClient(url string) *Client {
	return NewClient(&config.GeminiConfig{APIKey: "test-key", BaseURL: url, Model: "gemini-2.5-flash", TimeoutSeconds: 5})
}

func TestGenerateContent_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/v1beta/models/gemini-2.5-flash:generateContent") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Fatalf("missing api key header")
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("invalid request body: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 {
			t.Fatalf("unexpected request shape")
		}
		if req.GenerationConfig.Temperature != 0.2 {
			t.Fatalf("unexpected temperature %v", req.GenerationConfig.Temperature)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"model output"}]}}]}`))
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	out, err := client.GenerateContent(context.Background(), "summarize this")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if out != "model output" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestGenerateContent_EmptyCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	_, err := client.GenerateContent(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error for empty candidates")
	}
	if apperrors.CodeOf(err) != apperrors.ErrorCode_TRANSPORT_FAILED {
		t.Fatalf("expected TRANSPORT_FAILED, got %v", apperrors.CodeOf(err))
	}
}

func TestGenerateContent_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		code   apperrors.ErrorCode
	}{
		{"unauthorized", http.StatusUnauthorized, apperrors.ErrorCode_AUTH_FAILED},
		{"rate limited", http.StatusTooManyRequests, apperrors.ErrorCode_RATE_LIMITED},
		{"bad gateway", http.StatusBadGateway, apperrors.ErrorCode_TRANSPORT_FAILED},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer ts.Close()

			client := newTestClient(ts.URL)
			_, err := client.GenerateContent(context.Background(), "prompt")
			if err == nil {
				t.Fatalf("expected error for status %d", tc.status)
			}
			if got := apperrors.CodeOf(err); got != tc.code {
				t.Fatalf("expected code %v, got %v", tc.code, got)
			}
		})
	}
}
