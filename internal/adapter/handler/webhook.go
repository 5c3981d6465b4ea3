package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/omerharel/minuteflow/errors"
	"github.com/omerharel/minuteflow/internal/domain/entities"
	"github.com/omerharel/minuteflow/internal/usecase/pipeline"
	"github.com/omerharel/minuteflow/pkg/fathom"
)

// Runner executes a pipeline run for one recording
type Runner interface {
	Run(ctx context.Context, recordingID string, opts pipeline.Options) (*pipeline.Report, error)
	RunFromTranscript(ctx context.Context, transcript *entities.Transcript, opts pipeline.Options) (*pipeline.Report, error)
}

// WebhookHandler receives transcript-ready notifications, verifies their
// signatures and kicks off pipeline runs in the background.
type WebhookHandler struct {
	runner        Runner
	webhookSecret string
	logger        *zap.Logger
}

// NewWebhookHandler constructs a webhook handler
func NewWebhookHandler(runner Runner, webhookSecret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		runner:        runner,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// HandleFathomWebhook processes a transcript-ready delivery. The signature
// is verified over the exact raw body before any parsing. The handler
// acknowledges with 200 immediately and processes the recording in a
// background goroutine so the sender never times out waiting on the
// pipeline.
func (h *WebhookHandler) HandleFathomWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to read webhook body", zap.Error(err))
		}
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload("failed to read body"))
	}

	headers := fathom.SignatureHeaders{
		ID:        c.Request().Header.Get("webhook-id"),
		Timestamp: c.Request().Header.Get("webhook-timestamp"),
		Signature: c.Request().Header.Get("webhook-signature"),
	}

	if err := fathom.VerifySignature(h.webhookSecret, body, headers, time.Now()); err != nil {
		if h.logger != nil {
			h.logger.Warn("webhook signature rejected",
				zap.String("request_id", getRequestID(c)),
				zap.String("webhook_id", headers.ID),
				zap.String("remote_ip", c.RealIP()),
				zap.Error(err),
			)
		}
		return HandleError(h.logger, c, err)
	}

	var event entities.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		if h.logger != nil {
			h.logger.Error("failed to parse webhook payload", zap.Error(err))
		}
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload("malformed JSON payload"))
	}

	recordingID := event.RecordingID
	if recordingID == "" {
		var ok bool
		recordingID, ok = ExtractRecordingID(event.URL)
		if !ok && h.logger != nil {
			h.logger.Warn("payload carries no recording id, using epoch fallback",
				zap.String("url", event.URL),
				zap.String("recording_id", recordingID),
			)
		}
	}

	if h.logger != nil {
		h.logger.Info("webhook accepted",
			zap.String("request_id", getRequestID(c)),
			zap.String("webhook_id", headers.ID),
			zap.String("recording_id", recordingID),
			zap.String("meeting_title", event.MeetingTitle),
			zap.Bool("inline_transcript", event.HasInlineTranscript()),
		)
	}

	// Acknowledge before processing: the sender retries non-2xx responses
	// and the pipeline can take minutes.
	go h.process(&event, recordingID)

	return HandleSuccess(h.logger, c, map[string]interface{}{
		"status":       "accepted",
		"recording_id": recordingID,
	})
}

func (h *WebhookHandler) process(event *entities.WebhookEvent, recordingID string) {
	ctx := context.Background()

	var err error
	if event.HasInlineTranscript() {
		_, err = h.runner.RunFromTranscript(ctx, event.ToTranscript(recordingID), pipeline.Options{})
	} else {
		_, err = h.runner.Run(ctx, recordingID, pipeline.Options{})
	}

	if err != nil && h.logger != nil {
		h.logger.Error("background pipeline run failed",
			zap.String("recording_id", recordingID),
			zap.String("stage", string(pipeline.StageOf(err))),
			zap.Error(err),
		)
	}
}

// ExtractRecordingID pulls the recording id out of a share URL of the form
// .../recordings/{id} or .../calls/{id}. When the URL carries no id the
// current epoch second is used so the run still gets a unique key; the
// second return is false in that case.
func ExtractRecordingID(rawURL string) (string, bool) {
	if rawURL != "" {
		if u, err := url.Parse(rawURL); err == nil {
			segments := strings.Split(strings.Trim(u.Path, "/"), "/")
			for i, seg := range segments {
				if (seg == "recordings" || seg == "calls") && i+1 < len(segments) && segments[i+1] != "" {
					return segments[i+1], true
				}
			}
		}
	}
	return strconv.FormatInt(time.Now().Unix(), 10), false
}
