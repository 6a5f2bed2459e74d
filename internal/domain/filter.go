package domain

import "fmt"

// Filter selects a view of the task list. It is transient UI state,
// never persisted.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
	FilterOverdue   Filter = "overdue"
)

// ParseFilter validates a filter name coming from user input.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case FilterAll, FilterPending, FilterCompleted, FilterOverdue:
		return f, nil
	}
	return "", fmt.Errorf("unknown filter %q (want all, pending, completed or overdue)", s)
}

// Matches reports whether t belongs to the filtered view as of today.
func (f Filter) Matches(t Task, today Date) bool {
	switch f {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	case FilterOverdue:
		return t.Overdue(today)
	default:
		return true
	}
}
