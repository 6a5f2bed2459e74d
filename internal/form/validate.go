// Package form validates a candidate task's fields before any network
// call, so the API only ever receives well-formed data and the user gets
// immediate feedback.
package form

import (
	"errors"
	"strings"

	dom "github.com/grpansare/task-management/internal/domain"
)

// Rule violations, worded exactly as they are shown to the user.
var (
	ErrTitleRequired       = errors.New("title required")
	ErrTitleTooShort       = errors.New("title too short")
	ErrTitleTooLong        = errors.New("title too long")
	ErrDescriptionRequired = errors.New("description required")
	ErrDescriptionTooShort = errors.New("description too short")
	ErrDescriptionTooLong  = errors.New("description too long")
	ErrDueDatePast         = errors.New("due date cannot be in the past")
)

const (
	titleMin       = 3
	titleMax       = 50
	descriptionMin = 3
	descriptionMax = 200
)

// Clean returns t with title and description trimmed and an unset
// priority defaulted to MEDIUM. Validation and submission both work on
// the cleaned value.
func Clean(t dom.Task) dom.Task {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	if t.Priority == "" {
		t.Priority = dom.PriorityMedium
	}
	return t
}

// Validate checks the candidate against the field rules in a fixed
// order and returns the first violated rule. The order is part of the
// contract: user-facing messages depend on it. A due date equal to
// today passes.
func Validate(t dom.Task, today dom.Date) error {
	title := strings.TrimSpace(t.Title)
	switch n := len([]rune(title)); {
	case n == 0:
		return ErrTitleRequired
	case n < titleMin:
		return ErrTitleTooShort
	case n > titleMax:
		return ErrTitleTooLong
	}
	description := strings.TrimSpace(t.Description)
	switch n := len([]rune(description)); {
	case n == 0:
		return ErrDescriptionRequired
	case n < descriptionMin:
		return ErrDescriptionTooShort
	case n > descriptionMax:
		return ErrDescriptionTooLong
	}
	if t.DueDate != nil && t.DueDate.Before(today) {
		return ErrDueDatePast
	}
	return nil
}
