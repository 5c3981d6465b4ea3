package fathom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	apperrors "github.com/omerharel/minuteflow/errors"
	"github.com/omerharel/minuteflow/internal/domain/entities"
	"github.com/omerharel/minuteflow/pkg/config"
)

// Client is a minimal client for the Fathom external API
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a Fathom client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewClient(cfg *config.FathomConfig) *Client {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("FATHOM_API_KEY")
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("FATHOM_API_URL")
		if base == "" {
			base = "https://api.fathom.ai/external/v1"
		}
	}

	timeout := 30 * time.Second
	if cfg != nil && cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: base,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchTranscript retrieves the full transcript for a recording identifier.
// The identifier must be Fathom's internal recording id, not the call id
// that appears in browser-facing URLs. Returns the parsed transcript plus
// the raw response body for the artifact side-channel.
func (c *Client) FetchTranscript(ctx context.Context, recordingID string) (*entities.Transcript, []byte, error) {
	endpoint := fmt.Sprintf("%s/recordings/%s/transcript", c.baseURL, recordingID)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, nil, apperrors.ErrInternal(err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, apperrors.ErrTransport("fathom", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, nil, apperrors.ErrAuthFailed("fathom", fmt.Errorf("status %d", resp.StatusCode))
	case http.StatusNotFound:
		return nil, nil, apperrors.ErrNotFound("recording", recordingID)
	case http.StatusTooManyRequests:
		return nil, nil, apperrors.ErrRateLimited("fathom")
	default:
		return nil, nil, apperrors.ErrTransport("fathom", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, apperrors.ErrTransport("fathom", err)
	}

	var t entities.Transcript
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, nil, apperrors.ErrTransport("fathom", fmt.Errorf("invalid JSON response: %w", err))
	}
	// The response echoes an id field but the requested identifier is
	// authoritative for artifact and record keying.
	t.RecordingID = recordingID

	return &t, raw, nil
}
