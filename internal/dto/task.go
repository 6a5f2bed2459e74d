package dto

import (
	dom "github.com/grpansare/task-management/internal/domain"
)

// TaskPayload is the JSON body for POST /api/tasks/{email} and
// PUT /api/tasks/{id}. The same shape is used by the client when
// sending and by the server when binding.
type TaskPayload struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Priority    string    `json:"priority"`
	DueDate     *dom.Date `json:"dueDate"` // null = no due date
	Completed   bool      `json:"completed"`
}

// StatusUpdateRequest is the JSON body for PATCH /api/tasks/{id}/status.
// Completed is a pointer so that a missing field is distinguishable
// from an explicit false.
type StatusUpdateRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// TaskResponse is the wire shape of a task.
type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	DueDate     *dom.Date `json:"dueDate"`
	Completed   bool      `json:"completed"`
}

// FromTask converts a domain task to its wire shape.
func FromTask(t dom.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Completed:   t.Completed,
	}
}

// Task converts the wire shape back to a domain task.
func (r TaskResponse) Task() dom.Task {
	return dom.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    dom.Priority(r.Priority),
		DueDate:     r.DueDate,
		Completed:   r.Completed,
	}
}

// FromTasks converts a list of domain tasks, preserving order.
func FromTasks(list []dom.Task) []TaskResponse {
	out := make([]TaskResponse, len(list))
	for i := range list {
		out[i] = FromTask(list[i])
	}
	return out
}
