package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingRecord is the persisted parent record for one processed recording.
// At most one row exists per recording identifier; the unique index on
// recording_id is the idempotency boundary for redelivered webhooks.
type MeetingRecord struct {
	ID             uuid.UUID          `json:"id" gorm:"type:uuid;primary_key"`
	RecordingID    string             `json:"recording_id" gorm:"type:varchar(255);not null;uniqueIndex"`
	CallName       string             `json:"call_name" gorm:"type:varchar(500);not null"`
	MeetingDate    time.Time          `json:"meeting_date"`
	AttendeeEmails string             `json:"attendee_emails" gorm:"type:text"`
	SourceURL      string             `json:"source_url" gorm:"type:varchar(500)"`
	RawTranscript  string             `json:"raw_transcript" gorm:"type:text"`
	Summary        string             `json:"summary" gorm:"type:text"`
	KeyTakeaways   datatypes.JSON     `json:"key_takeaways" gorm:"type:jsonb"`
	Topics         datatypes.JSON     `json:"topics" gorm:"type:jsonb"`
	Status         string             `json:"status" gorm:"type:varchar(50);default:'Completed'"`
	ActionItems    []ActionItemRecord `json:"action_items,omitempty" gorm:"foreignKey:MeetingID"`
	CreatedAt      time.Time          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time          `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (MeetingRecord) TableName() string {
	return "meetings"
}

// NewMeetingRecord creates a meeting record for a recording identifier
func NewMeetingRecord(recordingID string) *MeetingRecord {
	return &MeetingRecord{
		ID:          uuid.New(),
		RecordingID: recordingID,
		Status:      "Completed",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// ActionItemRecord is a persisted child task linked back to its parent
// meeting record. Priority is stored in the record store's P1/P2/P3 scale.
type ActionItemRecord struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	MeetingID   uuid.UUID  `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"type:varchar(500);not null"`
	Description string     `json:"description" gorm:"type:text"`
	Owner       string     `json:"owner" gorm:"type:varchar(255)"`
	Priority    string     `json:"priority" gorm:"type:varchar(10);not null"`
	Status      string     `json:"status" gorm:"type:varchar(50);not null;default:'To-Do'"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Context     string     `json:"context" gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (ActionItemRecord) TableName() string {
	return "action_items"
}

// NewActionItemRecord creates a child record linked to meetingID
func NewActionItemRecord(meetingID uuid.UUID, title string) *ActionItemRecord {
	return &ActionItemRecord{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Title:     title,
		Status:    "To-Do",
		CreatedAt: time.Now(),
	}
}
