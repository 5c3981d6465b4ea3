package summary

import (
	"fmt"
	"strings"

	"github.com/omerharel/minuteflow/internal/domain/entities"
)

// maxTranscriptChars bounds the serialized transcript so the prompt stays
// inside the model's input window. Long recordings are truncated from the
// tail; the opening of a meeting carries the agenda and attendees.
const maxTranscriptChars = 200_000

// FormatTranscript renders the transcript into the readable text block
// embedded in the prompt.
func FormatTranscript(t *entities.Transcript) string {
	participants := strings.Join(t.SpeakerNames(), ", ")
	if participants == "" {
		participants = "Not specified"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("MEETING: %s\n", t.Title))
	sb.WriteString(fmt.Sprintf("DATE: %s\n", t.Date))
	sb.WriteString(fmt.Sprintf("PARTICIPANTS: %s\n\n", participants))
	sb.WriteString("TRANSCRIPT:\n")
	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n\n")

	for _, seg := range t.Segments {
		name := seg.Speaker.DisplayName
		if name == "" {
			name = "Unknown"
		}
		sb.WriteString(fmt.Sprintf("[%s] %s: %s\n", seg.Timestamp, name, seg.Text))
		if sb.Len() > maxTranscriptChars {
			sb.WriteString("\n[transcript truncated]\n")
			break
		}
	}

	return sb.String()
}

// BuildPrompt wraps the formatted transcript with the summarization
// instruction template. Output language is a business requirement of the
// deployment; the schema itself is language-agnostic.
func BuildPrompt(transcriptText string) string {
	return fmt.Sprintf(`You are a professional meeting & conversation summarizer.

Your job is to turn raw, messy, or unstructured conversation transcripts into clear and concise summaries — written in **Hebrew only**.
The tone should be natural, professional, and easy to read — as if written by a human native speaker.

%s

Behavior guidelines:
- Never translate or explain — output must always be written natively in Hebrew
- Focus on signal, not noise: remove chit-chat, filler, and irrelevant side talk
- Structure the summary for someone who wasn't in the meeting and needs to quickly understand what happened and what's next
- Don't mention the transcript or that you're summarizing — just write the summary directly

Return your analysis as valid JSON with the following structure (all text fields in Hebrew):

{
  "meeting_title": "professional meeting title",
  "meeting_purpose": "one short sentence describing the meeting's purpose",
  "key_takeaways": [
    "important insight or decision 1",
    "important insight or decision 2"
  ],
  "topics": [
    {
      "title": "topic title",
      "description": "1-3 sentences about the topic"
    }
  ],
  "action_items": [
    {
      "title": "task title",
      "description": "detailed description of what needs to be done",
      "owner": "name of the responsible person or null",
      "priority": "High|Medium|Low",
      "due_date": "YYYY-MM-DD or null",
      "context": "relevant context from the meeting"
    }
  ],
  "participants_mentioned": ["names of participants mentioned"]
}

CRITICAL: Return ONLY valid JSON, no markdown code blocks or formatting. All text content must be in Hebrew except for: owner names, dates, and priority levels.
`, transcriptText)
}
