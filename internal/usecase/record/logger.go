package record

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/omerharel/minuteflow/errors"
	"github.com/omerharel/minuteflow/internal/domain/entities"
	"github.com/omerharel/minuteflow/internal/domain/repositories"
)

// Result reports the identifiers created by one logging pass
type Result struct {
	MeetingRecordID uuid.UUID
	ActionItemIDs   []uuid.UUID
}

// Logger persists a validated summary and its source transcript as one
// meeting record plus one child record per action item.
type Logger struct {
	repo      repositories.RecordRepository
	sourceURL string
	logger    *zap.Logger
}

// NewLogger constructs a record logger. sourceURLBase is the browser-facing
// recording URL prefix stored on each meeting record.
func NewLogger(repo repositories.RecordRepository, sourceURLBase string, logger *zap.Logger) *Logger {
	if sourceURLBase == "" {
		sourceURLBase = "https://app.fathom.video/recordings"
	}
	return &Logger{repo: repo, sourceURL: sourceURLBase, logger: logger}
}

// LogMeeting writes the parent meeting record, then one child record per
// action item. The parent is created first because children reference its
// identifier. A recording that already has a meeting record yields a
// DUPLICATE error without touching the store; a child write that fails
// after the parent succeeded yields a PARTIAL_WRITE error naming every
// failed item.
func (l *Logger) LogMeeting(ctx context.Context, s *entities.SummaryResult, t *entities.Transcript) (*Result, error) {
	// Idempotency check before any write. The unique index on recording_id
	// backstops this under concurrent runs.
	existing, err := l.repo.FindMeetingByRecordingID(ctx, t.RecordingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if l.logger != nil {
			l.logger.Info("recording already processed",
				zap.String("recording_id", t.RecordingID),
				zap.String("meeting_record_id", existing.ID.String()),
			)
		}
		return nil, apperrors.ErrDuplicate(t.RecordingID)
	}

	meeting := l.buildMeetingRecord(s, t)
	if err := l.repo.CreateMeeting(ctx, meeting); err != nil {
		return nil, err
	}

	if l.logger != nil {
		l.logger.Info("meeting record created",
			zap.String("recording_id", t.RecordingID),
			zap.String("meeting_record_id", meeting.ID.String()),
			zap.Int("action_items", len(s.ActionItems)),
		)
	}

	result := &Result{MeetingRecordID: meeting.ID}
	var failed []string
	var lastErr error

	for i, task := range s.ActionItems {
		item := l.buildActionItemRecord(meeting.ID, task)
		if err := l.repo.CreateActionItem(ctx, item); err != nil {
			failed = append(failed, task.Title)
			lastErr = err
			if l.logger != nil {
				l.logger.Error("action item write failed",
					zap.String("meeting_record_id", meeting.ID.String()),
					zap.Int("index", i+1),
					zap.String("title", task.Title),
					zap.Error(err),
				)
			}
			continue
		}
		result.ActionItemIDs = append(result.ActionItemIDs, item.ID)
	}

	if len(failed) > 0 {
		return result, apperrors.ErrPartialWrite(meeting.ID.String(), failed, lastErr)
	}

	return result, nil
}

func (l *Logger) buildMeetingRecord(s *entities.SummaryResult, t *entities.Transcript) *entities.MeetingRecord {
	m := entities.NewMeetingRecord(t.RecordingID)
	m.CallName = s.MeetingTitle
	m.MeetingDate = parseMeetingDate(t.Date)
	m.AttendeeEmails = formatAttendees(t)
	m.SourceURL = fmt.Sprintf("%s/%s", l.sourceURL, t.RecordingID)
	m.RawTranscript = t.PlainText()
	m.Summary = FormatSummaryText(s)

	if takeaways, err := json.Marshal(s.KeyTakeaways); err == nil {
		m.KeyTakeaways = takeaways
	}
	if topics, err := json.Marshal(s.Topics); err == nil {
		m.Topics = topics
	}

	return m
}

func (l *Logger) buildActionItemRecord(meetingID uuid.UUID, task entities.ActionItem) *entities.ActionItemRecord {
	item := entities.NewActionItemRecord(meetingID, task.Title)
	item.Description = task.Description
	item.Owner = task.Owner
	item.Priority = MapPriority(task.Priority)
	item.Status = NormalizeStatus(item.Status)
	item.Context = task.Context

	if task.DueDate != "" {
		if due, err := time.Parse("2006-01-02", task.DueDate); err == nil {
			item.DueDate = &due
		}
	}

	return item
}

func parseMeetingDate(date string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if d, err := time.Parse(layout, date); err == nil {
			return d
		}
	}
	return time.Now()
}

func formatAttendees(t *entities.Transcript) string {
	attendees := t.Attendees()
	if len(attendees) == 0 {
		return "No attendees"
	}
	return strings.Join(attendees, ", ")
}
