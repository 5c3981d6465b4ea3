package repositories

import (
	"context"

	"github.com/omerharel/minuteflow/internal/domain/entities"
)

// RecordRepository is the persistence boundary for meeting and action item
// records. The idempotency guarantee lives here: CreateMeeting must refuse
// a second row for the same recording identifier under the store's own
// consistency guarantees, not an in-process lock.
type RecordRepository interface {
	// FindMeetingByRecordingID returns nil, nil when no record exists
	FindMeetingByRecordingID(ctx context.Context, recordingID string) (*entities.MeetingRecord, error)

	// CreateMeeting inserts the parent record. Returns a DUPLICATE AppError
	// when a record with the same recording identifier already exists.
	CreateMeeting(ctx context.Context, m *entities.MeetingRecord) error

	// CreateActionItem inserts one child record linked to its parent
	CreateActionItem(ctx context.Context, item *entities.ActionItemRecord) error
}
