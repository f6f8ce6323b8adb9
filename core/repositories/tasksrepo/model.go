package tasksrepo

import (
	"fmt"
	"strings"
)

// Field length policy for task input. Titles and descriptions are both
// required; description length gets the larger budget.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Status is the lifecycle state of a task. Only two values exist; nothing
// else is ever stored.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// ParseStatus converts a raw string into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("invalid status %q: must be %q or %q", s, StatusPending, StatusDone)
	}
	return status, nil
}

// Valid reports whether the status is one of the enumerated values.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusDone
}

// Task is the main entity type. The ID is assigned by the store at creation
// and never changes; only Status is mutable afterwards.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

// FieldError indicates a validation failure on a specific input field.
type FieldError struct {
	Field  string
	Reason string
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", fe.Field, fe.Reason)
}

// CreateTask contains fields for creating a new task. Status is optional and
// defaults to pending.
type CreateTask struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      *Status `json:"status,omitempty"`
}

// Validate enforces the input policy. Title and description are both required
// non-empty after trimming incidental whitespace.
func (ct CreateTask) Validate() error {
	if strings.TrimSpace(ct.Title) == "" {
		return &FieldError{Field: "title", Reason: "is required"}
	}
	if len(ct.Title) > MaxTitleLength {
		return &FieldError{Field: "title", Reason: fmt.Sprintf("must be at most %d characters", MaxTitleLength)}
	}
	if strings.TrimSpace(ct.Description) == "" {
		return &FieldError{Field: "description", Reason: "is required"}
	}
	if len(ct.Description) > MaxDescriptionLength {
		return &FieldError{Field: "description", Reason: fmt.Sprintf("must be at most %d characters", MaxDescriptionLength)}
	}
	if ct.Status != nil && !ct.Status.Valid() {
		return &FieldError{Field: "status", Reason: fmt.Sprintf("must be %q or %q", StatusPending, StatusDone)}
	}
	return nil
}

// UpdateTask contains the fields a caller may change on an existing task.
// Only the status is mutable after creation.
type UpdateTask struct {
	Status Status `json:"status"`
}

// Validate enforces the status enum.
func (ut UpdateTask) Validate() error {
	if !ut.Status.Valid() {
		return &FieldError{Field: "status", Reason: fmt.Sprintf("must be %q or %q", StatusPending, StatusDone)}
	}
	return nil
}
