package fetch

import (
	"context"

	"go.uber.org/zap"

	"github.com/omerharel/minuteflow/internal/domain/entities"
	"github.com/omerharel/minuteflow/pkg/artifact"
	"github.com/omerharel/minuteflow/pkg/fathom"
)

// Fetcher retrieves transcripts from the remote recording service and
// writes the raw response to the artifact side-channel so failed runs can
// be replayed without re-fetching.
type Fetcher struct {
	client    *fathom.Client
	artifacts *artifact.Store
	logger    *zap.Logger
}

// NewFetcher constructs a transcript fetcher
func NewFetcher(client *fathom.Client, artifacts *artifact.Store, logger *zap.Logger) *Fetcher {
	return &Fetcher{client: client, artifacts: artifacts, logger: logger}
}

// FetchTranscript fetches and parses the transcript for a recording id
func (f *Fetcher) FetchTranscript(ctx context.Context, recordingID string) (*entities.Transcript, error) {
	transcript, raw, err := f.client.FetchTranscript(ctx, recordingID)
	if err != nil {
		return nil, err
	}

	if f.logger != nil {
		f.logger.Info("transcript fetched",
			zap.String("recording_id", recordingID),
			zap.Int("segments", len(transcript.Segments)),
		)
	}

	if f.artifacts != nil {
		path, err := f.artifacts.SaveTranscript(ctx, recordingID, raw)
		if err != nil {
			// The in-memory transcript is the primary data path; a failed
			// artifact write only costs replayability.
			if f.logger != nil {
				f.logger.Warn("failed to save transcript artifact",
					zap.String("recording_id", recordingID),
					zap.Error(err),
				)
			}
		} else if f.logger != nil {
			f.logger.Info("transcript artifact saved",
				zap.String("path", path),
			)
		}
	}

	return transcript, nil
}
