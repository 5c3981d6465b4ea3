package summary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/omerharel/minuteflow/errors"
	"github.com/omerharel/minuteflow/internal/domain/entities"
)

// Parser coerces the model's text response into a validated SummaryResult
type Parser struct {
	validate *validator.Validate
}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{validate: validator.New()}
}

// Parse strips incidental formatting, unmarshals the payload and validates
// it against the summary schema. A failure here is a VALIDATION_FAILED
// error, distinct from transport failures: it signals a prompt/schema
// mismatch and retrying without inspecting the payload is pointless.
func (p *Parser) Parse(response string) (*entities.SummaryResult, error) {
	jsonString := extractJSON(response)

	var result entities.SummaryResult
	if err := json.Unmarshal([]byte(jsonString), &result); err != nil {
		return nil, apperrors.ErrValidation(fmt.Errorf("response is not valid JSON: %w", err))
	}

	normalize(&result)

	if err := p.validate.Struct(&result); err != nil {
		return nil, apperrors.ErrValidation(describeValidation(err))
	}

	return &result, nil
}

// normalize trims incidental whitespace the model tends to emit around
// enumerated values before strict validation runs.
func normalize(r *entities.SummaryResult) {
	for i := range r.ActionItems {
		r.ActionItems[i].Priority = strings.TrimSpace(r.ActionItems[i].Priority)
		r.ActionItems[i].DueDate = strings.TrimSpace(r.ActionItems[i].DueDate)
	}
	if r.Topics == nil {
		r.Topics = make([]entities.Topic, 0)
	}
	if r.ActionItems == nil {
		r.ActionItems = make([]entities.ActionItem, 0)
	}
}

// describeValidation rewrites validator errors into field-level messages an
// operator can act on when re-tuning the prompt.
func describeValidation(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("missing required field %s", fe.Namespace()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s has value %q, expected one of: %s", fe.Namespace(), fe.Value(), fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field %s must have at least %s entries", fe.Namespace(), fe.Param()))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("field %s is not a %s date", fe.Namespace(), fe.Param()))
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
