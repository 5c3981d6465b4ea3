package record

import (
	"fmt"
	"strings"

	"github.com/omerharel/minuteflow/internal/domain/entities"
)

// MapPriority maps the summary's High/Medium/Low scale to the record
// store's P1/P2/P3 select options.
func MapPriority(priority string) string {
	switch strings.TrimSpace(priority) {
	case entities.ActionItemPriorityHigh:
		return "P1"
	case entities.ActionItemPriorityLow:
		return "P3"
	default:
		return "P2"
	}
}

// NormalizeStatus coerces a status string onto the exact select options the
// store's schema understands. Select fields are case- and
// character-sensitive; an off-by-one-dash value is a write failure.
func NormalizeStatus(status string) string {
	normalized := strings.TrimSpace(status)

	switch normalized {
	case "To-Do", "In Progress", "Done":
		return normalized
	}

	switch strings.ToLower(normalized) {
	case "to do", "todo":
		return "To-Do"
	case "in progress", "inprogress":
		return "In Progress"
	case "done", "completed":
		return "Done"
	default:
		return "To-Do"
	}
}

// FormatSummaryText renders the structured summary as the rich-text block
// stored in the meeting record's summary column. English fragments (owner
// names, dates) go on their own lines so RTL rendering doesn't garble them.
func FormatSummaryText(s *entities.SummaryResult) string {
	sections := make([]string, 0)

	sections = append(sections, fmt.Sprintf("**תכלית הפגישה:** %s", s.MeetingPurpose))

	if len(s.KeyTakeaways) > 0 {
		sections = append(sections, "\n**מסקנות עיקריות:**")
		for _, item := range s.KeyTakeaways {
			sections = append(sections, fmt.Sprintf("• %s", item))
		}
	}

	if len(s.Topics) > 0 {
		sections = append(sections, "\n**נושאים:**")
		for _, topic := range s.Topics {
			sections = append(sections, fmt.Sprintf("\n**%s**\n%s", topic.Title, topic.Description))
		}
	}

	if len(s.ActionItems) > 0 {
		sections = append(sections, "\n**פעולות:**")
		for _, task := range s.ActionItems {
			line := fmt.Sprintf("• %s", task.Title)
			if task.Owner != "" {
				line += fmt.Sprintf("\n  אחראי: %s", task.Owner)
			}
			if task.DueDate != "" {
				line += fmt.Sprintf("\n  מועד: %s", task.DueDate)
			}
			sections = append(sections, line)
		}
	}

	return strings.Join(sections, "\n")
}
