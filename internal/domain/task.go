package domain

// Priority of a task. The backend stores it as-is.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is the domain entity for one to-do item.
// ID is assigned by the backend on creation and immutable after that.
type Task struct {
	ID          int64
	Title       string
	Description string
	Priority    Priority
	DueDate     *Date
	Completed   bool
}

// Overdue reports whether t is past due as of the given day:
// not completed, has a due date, and the due date is strictly before today.
func (t Task) Overdue(today Date) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(today)
}

// DueStatus describes how urgent a task's due date is, for list badges.
type DueStatus string

const (
	DueNone     DueStatus = ""
	DueOverdue  DueStatus = "overdue"
	DueToday    DueStatus = "today"
	DueTomorrow DueStatus = "tomorrow"
	DueSoon     DueStatus = "soon"
	DueUpcoming DueStatus = "upcoming"
)

// DueStatusAt classifies t's due date relative to today.
// Completed tasks and tasks without a due date have no status.
func (t Task) DueStatusAt(today Date) DueStatus {
	if t.Completed || t.DueDate == nil {
		return DueNone
	}
	switch days := today.DaysUntil(*t.DueDate); {
	case days < 0:
		return DueOverdue
	case days == 0:
		return DueToday
	case days == 1:
		return DueTomorrow
	case days <= 3:
		return DueSoon
	default:
		return DueUpcoming
	}
}
