package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/grpansare/task-management/internal/collection"
	dom "github.com/grpansare/task-management/internal/domain"
)

func renderTasks(w io.Writer, list []dom.Task, counts collection.Counts) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No tasks found. Add a new task to get started!")
		return
	}
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tPRI\tDUE\tTITLE\tDESCRIPTION")
	today := dom.Today()
	for _, t := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, doneMark(t), priorityMark(t.Priority), dueLabel(t, today), t.Title, t.Description)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d total, %d pending, %d completed, %d overdue\n",
		counts.All, counts.Pending, counts.Completed, counts.Overdue)
}

func doneMark(t dom.Task) string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}

func priorityMark(p dom.Priority) string {
	switch p {
	case dom.PriorityHigh:
		return "HIGH"
	case dom.PriorityLow:
		return "LOW"
	default:
		return "MED"
	}
}

// dueLabel renders the due date with the same urgency badges the web
// client showed.
func dueLabel(t dom.Task, today dom.Date) string {
	if t.DueDate == nil {
		return "-"
	}
	switch t.DueStatusAt(today) {
	case dom.DueOverdue:
		return t.DueDate.String() + " (overdue)"
	case dom.DueToday:
		return t.DueDate.String() + " (today)"
	case dom.DueTomorrow:
		return t.DueDate.String() + " (tomorrow)"
	case dom.DueSoon:
		return t.DueDate.String() + " (soon)"
	default:
		return t.DueDate.String()
	}
}
