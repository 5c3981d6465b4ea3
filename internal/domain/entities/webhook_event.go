package entities

// WebhookEvent is the inbound "transcript ready" notification payload.
// It is consumed once and never persisted. Some senders embed the full
// transcript; when present the pipeline skips the fetch stage.
type WebhookEvent struct {
	MeetingTitle string    `json:"meeting_title"`
	CreatedAt    string    `json:"created_at"`
	URL          string    `json:"url"`
	RecordingID  string    `json:"recording_id,omitempty"`
	Transcript   []Segment `json:"transcript,omitempty"`
}

// HasInlineTranscript reports whether the sender delivered the transcript
// in the payload itself
func (e *WebhookEvent) HasInlineTranscript() bool {
	return len(e.Transcript) > 0
}

// ToTranscript builds a Transcript from an inline payload
func (e *WebhookEvent) ToTranscript(recordingID string) *Transcript {
	return &Transcript{
		RecordingID: recordingID,
		Title:       e.MeetingTitle,
		Date:        e.CreatedAt,
		Segments:    e.Transcript,
	}
}
