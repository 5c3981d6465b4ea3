package record

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	apperrors "github.com/omerharel/minuteflow/errors"
	"github.com/omerharel/minuteflow/internal/domain/entities"
)

type fakeRepo struct {
	existing    *entities.MeetingRecord
	meetings    []*entities.MeetingRecord
	items       []*entities.ActionItemRecord
	failMeeting error
	failTitles  map[string]bool
}

func (f *fakeRepo) FindMeetingByRecordingID(ctx context.Context, recordingID string) (*entities.MeetingRecord, error) {
	return f.existing, nil
}

func (f *fakeRepo) CreateMeeting(ctx context.Context, m *entities.MeetingRecord) error {
	if f.failMeeting != nil {
		return f.failMeeting
	}
	f.meetings = append(f.meetings, m)
	return nil
}

func (f *fakeRepo) CreateActionItem(ctx context.Context, item *entities.ActionItemRecord) error {
	if f.failTitles[item.Title] {
		return fmt.Errorf("insert failed")
	}
	f.items = append(f.items, item)
	return nil
}

func testTranscript() *entities.Transcript {
	email := "omer@example.com"
	return &entities.Transcript{
		RecordingID: "119611450",
		Title:       "Weekly Sync",
		Date:        "2026-08-12T09:00:00Z",
		Segments: []entities.Segment{
			{Speaker: entities.Speaker{DisplayName: "Omer Harel", MatchedCalendarInviteeEmail: &email}, Text: "Hello"},
			{Speaker: entities.Speaker{DisplayName: "Dana Levi"}, Text: "Hi"},
		},
	}
}

func testSummary() *entities.SummaryResult {
	return &entities.SummaryResult{
		MeetingTitle:   "סנכרון שבועי",
		MeetingPurpose: "תיאום",
		KeyTakeaways:   []string{"מסקנה"},
		ActionItems: []entities.ActionItem{
			{Title: "task one", Description: "d", Priority: "High", DueDate: "2026-09-05"},
			{Title: "task two", Description: "d", Priority: "Low"},
			{Title: "task three", Description: "d", Priority: "Medium"},
		},
	}
}

func TestLogMeeting_CreatesParentAndChildren(t *testing.T) {
	repo := &fakeRepo{}
	l := NewLogger(repo, "", nil)

	result, err := l.LogMeeting(context.Background(), testSummary(), testTranscript())
	if err != nil {
		t.Fatalf("log failed: %v", err)
	}

	if len(repo.meetings) != 1 {
		t.Fatalf("expected 1 meeting record, got %d", len(repo.meetings))
	}
	m := repo.meetings[0]
	if m.RecordingID != "119611450" {
		t.Fatalf("unexpected recording id %s", m.RecordingID)
	}
	if m.CallName != "סנכרון שבועי" {
		t.Fatalf("call name should come from the summary, got %q", m.CallName)
	}
	if m.AttendeeEmails != "omer@example.com, Dana Levi" {
		t.Fatalf("unexpected attendees %q", m.AttendeeEmails)
	}
	if !strings.Contains(m.SourceURL, "/119611450") {
		t.Fatalf("source url should embed the recording id, got %q", m.SourceURL)
	}
	if m.MeetingDate.Format("2006-01-02") != "2026-08-12" {
		t.Fatalf("unexpected meeting date %v", m.MeetingDate)
	}

	if len(repo.items) != 3 {
		t.Fatalf("expected 3 action items, got %d", len(repo.items))
	}
	if len(result.ActionItemIDs) != 3 {
		t.Fatalf("expected 3 ids in result, got %d", len(result.ActionItemIDs))
	}
	for _, item := range repo.items {
		if item.MeetingID != m.ID {
			t.Fatalf("action item not linked to parent")
		}
	}
	if repo.items[0].Priority != "P1" || repo.items[1].Priority != "P3" || repo.items[2].Priority != "P2" {
		t.Fatalf("priority mapping wrong: %s %s %s", repo.items[0].Priority, repo.items[1].Priority, repo.items[2].Priority)
	}
	if repo.items[0].DueDate == nil || repo.items[0].DueDate.Format("2006-01-02") != "2026-09-05" {
		t.Fatalf("due date not parsed: %v", repo.items[0].DueDate)
	}
	if repo.items[1].DueDate != nil {
		t.Fatal("missing due date should stay nil")
	}
}

func TestLogMeeting_DuplicateShortCircuits(t *testing.T) {
	repo := &fakeRepo{
		existing: entities.NewMeetingRecord("119611450"),
	}
	l := NewLogger(repo, "", nil)

	_, err := l.LogMeeting(context.Background(), testSummary(), testTranscript())
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	if apperrors.CodeOf(err) != apperrors.ErrorCode_DUPLICATE {
		t.Fatalf("expected DUPLICATE, got %v", apperrors.CodeOf(err))
	}
	if len(repo.meetings) != 0 || len(repo.items) != 0 {
		t.Fatal("duplicate must not write anything")
	}
}

func TestLogMeeting_ParentFailureWritesNoChildren(t *testing.T) {
	repo := &fakeRepo{failMeeting: apperrors.ErrTransport("store", fmt.Errorf("down"))}
	l := NewLogger(repo, "", nil)

	_, err := l.LogMeeting(context.Background(), testSummary(), testTranscript())
	if err == nil {
		t.Fatal("expected error when parent write fails")
	}
	if len(repo.items) != 0 {
		t.Fatal("no children may be written after a parent failure")
	}
}

func TestLogMeeting_PartialWrite(t *testing.T) {
	repo := &fakeRepo{failTitles: map[string]bool{"task two": true}}
	l := NewLogger(repo, "", nil)

	result, err := l.LogMeeting(context.Background(), testSummary(), testTranscript())
	if err == nil {
		t.Fatal("expected partial write error")
	}
	if apperrors.CodeOf(err) != apperrors.ErrorCode_PARTIAL_WRITE {
		t.Fatalf("expected PARTIAL_WRITE, got %v", apperrors.CodeOf(err))
	}
	if !strings.Contains(err.Error(), "1 action item write(s) failed") {
		t.Fatalf("unexpected message: %v", err)
	}

	var appErr apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatal("expected AppError")
	}
	if appErr.Details["failed_item_1"] != "task two" {
		t.Fatalf("failed item not named in details: %v", appErr.Details)
	}

	// Remaining items were still written
	if result == nil || len(result.ActionItemIDs) != 2 {
		t.Fatalf("expected 2 surviving action items, got %v", result)
	}
	if len(repo.items) != 2 {
		t.Fatalf("expected 2 stored items, got %d", len(repo.items))
	}
}

func TestParseMeetingDate_Fallback(t *testing.T) {
	if d := parseMeetingDate("2026-08-12"); d.Format("2006-01-02") != "2026-08-12" {
		t.Fatalf("date-only layout not parsed: %v", d)
	}
	if d := parseMeetingDate("not a date"); time.Since(d) > time.Minute {
		t.Fatalf("unparseable date should fall back to now, got %v", d)
	}
}
