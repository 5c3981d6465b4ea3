package entities

import (
	"fmt"
	"strings"
)

// Speaker is the per-segment speaker sub-record as returned by the
// transcript service. MatchedCalendarInviteeEmail is null when the service
// could not match the speaker to a calendar invitee.
type Speaker struct {
	DisplayName                 string  `json:"display_name"`
	MatchedCalendarInviteeEmail *string `json:"matched_calendar_invitee_email"`
}

// Segment is a single speaker-labeled utterance
type Segment struct {
	Speaker   Speaker `json:"speaker"`
	Timestamp string  `json:"timestamp"`
	Text      string  `json:"text"`
}

// Transcript holds the full speaker-labeled transcript for one recording.
// Segments are ordered by occurrence and never mutated after fetch.
type Transcript struct {
	RecordingID     string    `json:"recording_id"`
	Title           string    `json:"title"`
	Date            string    `json:"date"`
	DurationSeconds int       `json:"duration"`
	Segments        []Segment `json:"transcript"`
}

// Attendees resolves attendee identities from the per-segment speaker
// sub-records. The service exposes no top-level participant list: identity
// must be derived by scanning every segment, deduplicating by display name
// and preferring a matched calendar email over the bare name. An email seen
// on a later segment upgrades an entry previously recorded by name only.
func (t *Transcript) Attendees() []string {
	seen := make(map[string]string)
	order := make([]string, 0)

	for _, seg := range t.Segments {
		name := seg.Speaker.DisplayName
		if name == "" {
			name = "Unknown"
		}
		email := ""
		if seg.Speaker.MatchedCalendarInviteeEmail != nil {
			email = *seg.Speaker.MatchedCalendarInviteeEmail
		}

		if _, ok := seen[name]; !ok {
			order = append(order, name)
		}
		// Never downgrade an email back to a bare name
		if seen[name] == "" || email != "" {
			identity := email
			if identity == "" {
				identity = name
			}
			seen[name] = identity
		}
	}

	attendees := make([]string, 0, len(order))
	for _, name := range order {
		attendees = append(attendees, seen[name])
	}
	return attendees
}

// SpeakerNames returns the deduplicated display names in order of first
// appearance, used for the PARTICIPANTS header of the summarization prompt.
func (t *Transcript) SpeakerNames() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, seg := range t.Segments {
		name := seg.Speaker.DisplayName
		if name == "" {
			name = "Unknown"
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// PlainText renders the transcript as speaker-labeled text without
// timestamps, the denormalized form stored on the meeting record.
func (t *Transcript) PlainText() string {
	lines := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		name := seg.Speaker.DisplayName
		if name == "" {
			name = "Unknown"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", name, seg.Text))
	}
	return strings.Join(lines, "\n\n")
}
