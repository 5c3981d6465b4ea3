package summary

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/omerharel/minuteflow/internal/domain/entities"
	"github.com/omerharel/minuteflow/pkg/artifact"
	"github.com/omerharel/minuteflow/pkg/gemini"
)

// Generator turns a transcript into a validated structured summary
type Generator struct {
	client    *gemini.Client
	parser    *Parser
	artifacts *artifact.Store
	logger    *zap.Logger
}

// NewGenerator constructs a summary generator
func NewGenerator(client *gemini.Client, artifacts *artifact.Store, logger *zap.Logger) *Generator {
	return &Generator{
		client:    client,
		parser:    NewParser(),
		artifacts: artifacts,
		logger:    logger,
	}
}

// Summarize serializes the transcript into a bounded prompt, invokes the
// model and validates the response against the summary schema. The
// validated summary is mirrored to the artifact side-channel.
func (g *Generator) Summarize(ctx context.Context, t *entities.Transcript) (*entities.SummaryResult, error) {
	prompt := BuildPrompt(FormatTranscript(t))

	if g.logger != nil {
		g.logger.Info("generating summary",
			zap.String("recording_id", t.RecordingID),
			zap.Int("segments", len(t.Segments)),
			zap.Int("prompt_chars", len(prompt)),
		)
	}

	response, err := g.client.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result, err := g.parser.Parse(response)
	if err != nil {
		if g.logger != nil {
			g.logger.Error("summary failed validation",
				zap.String("recording_id", t.RecordingID),
				zap.Int("response_chars", len(response)),
				zap.Error(err),
			)
		}
		return nil, err
	}

	if g.logger != nil {
		g.logger.Info("summary validated",
			zap.String("recording_id", t.RecordingID),
			zap.Int("takeaways", len(result.KeyTakeaways)),
			zap.Int("action_items", len(result.ActionItems)),
		)
	}

	if g.artifacts != nil {
		if data, err := json.MarshalIndent(result, "", "  "); err == nil {
			if _, err := g.artifacts.SaveSummary(ctx, t.RecordingID, data); err != nil && g.logger != nil {
				g.logger.Warn("failed to save summary artifact",
					zap.String("recording_id", t.RecordingID),
					zap.Error(err),
				)
			}
		}
	}

	return result, nil
}
