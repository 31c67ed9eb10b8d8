package tasks

import (
	"strings"
	"unicode/utf8"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 500
)

// FieldError is a single validation failure, tied to the field that caused
// it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate checks the schema constraints and returns every violation. An
// empty result means the task is valid. Defaults are not applied here; call
// ApplyDefaults first.
func (t *Task) Validate() []FieldError {
	var errs []FieldError

	title := strings.TrimSpace(t.Title)
	if title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "Task title is required"})
	} else if utf8.RuneCountInString(title) > maxTitleLength {
		errs = append(errs, FieldError{Field: "title", Message: "Title cannot exceed 100 characters"})
	}

	if utf8.RuneCountInString(strings.TrimSpace(t.Description)) > maxDescriptionLength {
		errs = append(errs, FieldError{Field: "description", Message: "Description cannot exceed 500 characters"})
	}

	switch t.Status {
	case StatusPending, StatusInProgress, StatusCompleted:
	default:
		errs = append(errs, FieldError{Field: "status", Message: "Status must be: pending, in-progress, or completed"})
	}

	switch t.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		errs = append(errs, FieldError{Field: "priority", Message: "Priority must be: low, medium, or high"})
	}

	return errs
}

// Messages flattens field errors into the message list the API envelope
// carries.
func Messages(errs []FieldError) []string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return msgs
}
