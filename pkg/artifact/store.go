package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Archiver mirrors artifacts to a secondary location. The local files are
// disposable; the archive survives ephemeral filesystems.
type Archiver interface {
	Put(ctx context.Context, objectName string, data []byte) error
}

// Store writes the disposable intermediate artifacts of a pipeline run.
// The in-memory values passed between stages are the primary data path;
// these files exist so a failed run can be diagnosed and replayed without
// re-fetching.
type Store struct {
	dir     string
	archive Archiver
	logger  *zap.Logger
}

// NewStore creates a store rooted at dir. archive may be nil.
func NewStore(dir string, archive Archiver, logger *zap.Logger) *Store {
	return &Store{dir: dir, archive: archive, logger: logger}
}

// SaveTranscript writes the raw transcript response keyed by recording id
func (s *Store) SaveTranscript(ctx context.Context, recordingID string, data []byte) (string, error) {
	return s.save(ctx, fmt.Sprintf("transcript_%s.json", recordingID), data)
}

// SaveSummary writes the validated summary keyed by recording id
func (s *Store) SaveSummary(ctx context.Context, recordingID string, data []byte) (string, error) {
	return s.save(ctx, fmt.Sprintf("summary_%s.json", recordingID), data)
}

func (s *Store) save(ctx context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact dir: %w", err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	if s.archive != nil {
		// Archive failures must not fail the run; the local file is the
		// authoritative side-channel.
		if err := s.archive.Put(ctx, name, data); err != nil {
			if s.logger != nil {
				s.logger.Warn("artifact archive upload failed",
					zap.String("object", name),
					zap.Error(err),
				)
			}
		}
	}

	return path, nil
}

// Cleanup removes the intermediate artifacts for a recording. Missing
// files are not an error.
func (s *Store) Cleanup(recordingID string) []string {
	removed := make([]string, 0, 2)
	for _, name := range []string{
		fmt.Sprintf("transcript_%s.json", recordingID),
		fmt.Sprintf("summary_%s.json", recordingID),
	} {
		path := filepath.Join(s.dir, name)
		if err := os.Remove(path); err == nil {
			removed = append(removed, path)
		}
	}
	return removed
}
