package entities

// Priority levels accepted on an action item. The generator rejects any
// other value before the summary reaches downstream consumers.
const (
	ActionItemPriorityHigh   = "High"
	ActionItemPriorityMedium = "Medium"
	ActionItemPriorityLow    = "Low"
)

// ActionItem is a single extracted task from the meeting
type ActionItem struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Owner       string `json:"owner,omitempty"`
	Priority    string `json:"priority" validate:"required,oneof=High Medium Low"`
	DueDate     string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Context     string `json:"context,omitempty"`
}

// Topic is a discussion topic with a short description
type Topic struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// SummaryResult is the validated structured output of the language model.
// Produced once per recording, immutable thereafter. A SummaryResult that
// did not pass validation never reaches the record logger.
type SummaryResult struct {
	MeetingTitle          string       `json:"meeting_title" validate:"required"`
	MeetingPurpose        string       `json:"meeting_purpose" validate:"required"`
	KeyTakeaways          []string     `json:"key_takeaways" validate:"required,min=1,dive,required"`
	Topics                []Topic      `json:"topics" validate:"omitempty,dive"`
	ActionItems           []ActionItem `json:"action_items" validate:"omitempty,dive"`
	ParticipantsMentioned []string     `json:"participants_mentioned,omitempty"`
}
