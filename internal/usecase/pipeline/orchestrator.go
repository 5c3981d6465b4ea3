package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/omerharel/minuteflow/errors"
	"github.com/omerharel/minuteflow/internal/domain/entities"
	"github.com/omerharel/minuteflow/internal/usecase/record"
	"github.com/omerharel/minuteflow/pkg/artifact"
)

// Stage identifies the pipeline step a run is in when an error occurs
type Stage string

const (
	StageFetching    Stage = "Fetching"
	StageSummarizing Stage = "Summarizing"
	StageLogging     Stage = "Logging"
)

// StageError wraps a failure with the stage it occurred in
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the failing stage of err, or "" when err carries none
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// StageTiming records how long one stage of a run took
type StageTiming struct {
	Stage    Stage
	Duration time.Duration
}

// Report summarizes one pipeline run
type Report struct {
	RunID           uuid.UUID
	RecordingID     string
	MeetingTitle    string
	Stages          []StageTiming
	MeetingRecordID uuid.UUID
	ActionItemIDs   []uuid.UUID
	Duplicate       bool
	Started         time.Time
	Finished        time.Time
}

// Fetcher retrieves the transcript for a recording
type Fetcher interface {
	FetchTranscript(ctx context.Context, recordingID string) (*entities.Transcript, error)
}

// Summarizer turns a transcript into a validated structured summary
type Summarizer interface {
	Summarize(ctx context.Context, t *entities.Transcript) (*entities.SummaryResult, error)
}

// RecordLogger persists a summary and transcript to the store
type RecordLogger interface {
	LogMeeting(ctx context.Context, s *entities.SummaryResult, t *entities.Transcript) (*record.Result, error)
}

// Options tune a single run
type Options struct {
	// SkipLogging stops the run after summarization without writing to the
	// store. Used for prompt iteration against real transcripts.
	SkipLogging bool
	// KeepArtifacts leaves the transcript and summary files on disk after a
	// successful run instead of removing them.
	KeepArtifacts bool
}

// Orchestrator drives a recording through fetch, summarize and log in
// order. The fetch and summarize stages are retried on retryable errors;
// store writes are never retried blindly, the idempotency check decides.
type Orchestrator struct {
	fetcher       Fetcher
	summarizer    Summarizer
	recorder      RecordLogger
	artifacts     *artifact.Store
	logger        *zap.Logger
	retryInterval time.Duration
}

// NewOrchestrator wires the three stages together. artifacts may be nil
// when cleanup is not wanted.
func NewOrchestrator(fetcher Fetcher, summarizer Summarizer, recorder RecordLogger, artifacts *artifact.Store, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		fetcher:       fetcher,
		summarizer:    summarizer,
		recorder:      recorder,
		artifacts:     artifacts,
		logger:        logger,
		retryInterval: 2 * time.Second,
	}
}

// Run processes a recording end to end, fetching the transcript remotely
func (o *Orchestrator) Run(ctx context.Context, recordingID string, opts Options) (*Report, error) {
	report := o.newReport(recordingID)

	transcript, err := o.fetch(ctx, report, recordingID)
	if err != nil {
		return report, err
	}

	return o.continueFrom(ctx, report, transcript, opts)
}

// RunFromTranscript processes a transcript already delivered in the webhook
// payload, skipping the fetch stage entirely. The inline transcript is
// still written to the artifact side-channel so a failed run leaves its
// input inspectable, same as a fetched one.
func (o *Orchestrator) RunFromTranscript(ctx context.Context, transcript *entities.Transcript, opts Options) (*Report, error) {
	report := o.newReport(transcript.RecordingID)

	if o.logger != nil {
		o.logger.Info("using inline transcript",
			zap.String("recording_id", transcript.RecordingID),
			zap.Int("segments", len(transcript.Segments)),
		)
	}

	if o.artifacts != nil {
		if data, err := json.MarshalIndent(transcript, "", "  "); err == nil {
			if _, err := o.artifacts.SaveTranscript(ctx, transcript.RecordingID, data); err != nil && o.logger != nil {
				o.logger.Warn("failed to save transcript artifact",
					zap.String("recording_id", transcript.RecordingID),
					zap.Error(err),
				)
			}
		}
	}

	return o.continueFrom(ctx, report, transcript, opts)
}

func (o *Orchestrator) newReport(recordingID string) *Report {
	return &Report{
		RunID:       uuid.New(),
		RecordingID: recordingID,
		Started:     time.Now(),
	}
}

func (o *Orchestrator) fetch(ctx context.Context, report *Report, recordingID string) (*entities.Transcript, error) {
	start := time.Now()

	var transcript *entities.Transcript
	err := o.withRetry(ctx, func() error {
		t, err := o.fetcher.FetchTranscript(ctx, recordingID)
		if err != nil {
			return err
		}
		transcript = t
		return nil
	})
	o.record(report, StageFetching, start)
	if err != nil {
		return nil, o.fail(report, StageFetching, err)
	}
	return transcript, nil
}

// withRetry retries op on rate-limit and transport errors with exponential
// backoff; every other error class is surfaced on the first attempt.
func (o *Orchestrator) withRetry(ctx context.Context, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = o.retryInterval
	policy.MaxInterval = 10 * time.Second
	policy.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		if err := op(); err != nil {
			if apperrors.IsRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}, backoff.WithContext(policy, ctx))
}

func (o *Orchestrator) continueFrom(ctx context.Context, report *Report, transcript *entities.Transcript, opts Options) (*Report, error) {
	start := time.Now()
	var summary *entities.SummaryResult
	err := o.withRetry(ctx, func() error {
		s, err := o.summarizer.Summarize(ctx, transcript)
		if err != nil {
			return err
		}
		summary = s
		return nil
	})
	o.record(report, StageSummarizing, start)
	if err != nil {
		return report, o.fail(report, StageSummarizing, err)
	}
	report.MeetingTitle = summary.MeetingTitle

	if opts.SkipLogging {
		if o.logger != nil {
			o.logger.Info("store logging skipped",
				zap.String("recording_id", report.RecordingID),
			)
		}
		report.Finished = time.Now()
		return report, nil
	}

	start = time.Now()
	result, err := o.recorder.LogMeeting(ctx, summary, transcript)
	o.record(report, StageLogging, start)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.ErrorCode_DUPLICATE {
			// Re-delivered webhooks are expected; the earlier run already
			// produced the records.
			report.Duplicate = true
			report.Finished = time.Now()
			o.cleanup(report, opts)
			return report, nil
		}
		return report, o.fail(report, StageLogging, err)
	}

	report.MeetingRecordID = result.MeetingRecordID
	report.ActionItemIDs = result.ActionItemIDs
	report.Finished = time.Now()

	if o.logger != nil {
		o.logger.Info("pipeline run complete",
			zap.String("run_id", report.RunID.String()),
			zap.String("recording_id", report.RecordingID),
			zap.String("meeting_record_id", result.MeetingRecordID.String()),
			zap.Int("action_items", len(result.ActionItemIDs)),
			zap.Duration("elapsed", report.Finished.Sub(report.Started)),
		)
	}

	o.cleanup(report, opts)
	return report, nil
}

func (o *Orchestrator) record(report *Report, stage Stage, start time.Time) {
	report.Stages = append(report.Stages, StageTiming{Stage: stage, Duration: time.Since(start)})
}

func (o *Orchestrator) fail(report *Report, stage Stage, err error) error {
	report.Finished = time.Now()
	if o.logger != nil {
		o.logger.Error("pipeline run failed",
			zap.String("run_id", report.RunID.String()),
			zap.String("recording_id", report.RecordingID),
			zap.String("stage", string(stage)),
			zap.Error(err),
		)
	}
	return &StageError{Stage: stage, Err: err}
}

// cleanup removes run artifacts after success. Failed runs keep their
// artifacts so the transcript and model output can be inspected.
func (o *Orchestrator) cleanup(report *Report, opts Options) {
	if o.artifacts == nil || opts.KeepArtifacts {
		return
	}
	removed := o.artifacts.Cleanup(report.RecordingID)
	if len(removed) > 0 && o.logger != nil {
		o.logger.Info("artifacts removed",
			zap.String("recording_id", report.RecordingID),
			zap.Strings("paths", removed),
		)
	}
}
