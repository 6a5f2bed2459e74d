// Package collection holds the local copy of the task list and keeps it
// consistent with the remote store under best-effort, last-write-wins
// semantics. Only the completion toggle is optimistic; everything else
// waits for the server before touching local state.
package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/grpansare/task-management/internal/api"
	dom "github.com/grpansare/task-management/internal/domain"
	"github.com/grpansare/task-management/internal/form"
	"github.com/grpansare/task-management/internal/session"
)

var (
	// ErrTaskNotFound is returned when an operation names an id that is
	// not in the local collection.
	ErrTaskNotFound = errors.New("task not found")
	// ErrNotConfirmed is returned by Remove when the confirmation gate
	// did not fire. No request is sent in that case.
	ErrNotConfirmed = errors.New("deletion not confirmed")
)

// ConfirmFunc is the destructive-action gate for Remove. It receives
// the task about to be deleted and reports whether the user agreed.
type ConfirmFunc func(t dom.Task) bool

// Fields are the editable fields of a task. Update never touches the
// completed flag; that is SetCompleted's job.
type Fields struct {
	Title       string
	Description string
	Priority    dom.Priority
	DueDate     *dom.Date
}

// Collection is the view-model for one session's task list.
//
// The mutex guards only the slice; network calls run outside it, so
// several operations may be in flight at once. Operations on different
// ids are independent. For one id, each in-flight toggle carries its
// own pre-call snapshot and a failed call restores exactly that
// snapshot, which keeps a late failure from clobbering a newer toggle.
type Collection struct {
	api      *api.Client
	sessions *session.Store

	mu    sync.Mutex
	tasks []dom.Task

	now func() time.Time
}

// New returns an empty collection bound to the given API client and
// session store.
func New(client *api.Client, sessions *session.Store) *Collection {
	return &Collection{api: client, sessions: sessions, now: time.Now}
}

func (c *Collection) today() dom.Date {
	return dom.DateOf(c.now())
}

// creds fails fast when no session is active, before any request is
// attempted.
func (c *Collection) creds() (session.Session, error) {
	sess, err := c.sessions.Current()
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: not logged in", api.ErrAuth)
	}
	return sess, nil
}

// index returns the position of id, or -1. Caller holds the mutex.
func (c *Collection) index(id int64) int {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Load replaces the whole collection with the server's list. On failure
// the prior collection, possibly empty or stale, stays visible.
func (c *Collection) Load(ctx context.Context) error {
	sess, err := c.creds()
	if err != nil {
		return err
	}
	list, err := c.api.ListTasks(ctx, sess.Token, sess.UserID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.tasks = list
	c.mu.Unlock()
	return nil
}

// Create validates the candidate, sends it, and appends the server's
// task on success. Creation is never optimistic: there is no client-side
// id to reconcile against until the server has answered.
func (c *Collection) Create(ctx context.Context, candidate dom.Task) (dom.Task, error) {
	sess, err := c.creds()
	if err != nil {
		return dom.Task{}, err
	}
	candidate = form.Clean(candidate)
	if err := form.Validate(candidate, c.today()); err != nil {
		return dom.Task{}, err
	}
	created, err := c.api.CreateTask(ctx, sess.Token, sess.Email, candidate)
	if err != nil {
		return dom.Task{}, err
	}
	c.mu.Lock()
	c.tasks = append(c.tasks, created)
	c.mu.Unlock()
	return created, nil
}

// SetCompleted flips the flag locally first so the UI reflects the
// change with zero latency, then patches the server. Success swaps in
// the server's representation; failure restores this call's pre-call
// value. Either reconciliation is a no-op if the task has meanwhile
// left the collection.
func (c *Collection) SetCompleted(ctx context.Context, id int64, completed bool) error {
	sess, err := c.creds()
	if err != nil {
		return err
	}

	c.mu.Lock()
	i := c.index(id)
	if i < 0 {
		c.mu.Unlock()
		return ErrTaskNotFound
	}
	prev := c.tasks[i].Completed
	c.tasks[i].Completed = completed
	c.mu.Unlock()

	updated, err := c.api.PatchStatus(ctx, sess.Token, id, completed)

	c.mu.Lock()
	defer c.mu.Unlock()
	j := c.index(id)
	if err != nil {
		if j >= 0 {
			c.tasks[j].Completed = prev
		}
		return err
	}
	if j >= 0 {
		c.tasks[j] = updated
	}
	return nil
}

// Update validates the edit, preserves the task's current completed
// flag, and sends a full replace. The local entry is untouched until
// the server confirms; a failed edit leaves the task exactly as it was
// before the edit began.
func (c *Collection) Update(ctx context.Context, id int64, fields Fields) (dom.Task, error) {
	sess, err := c.creds()
	if err != nil {
		return dom.Task{}, err
	}

	c.mu.Lock()
	i := c.index(id)
	if i < 0 {
		c.mu.Unlock()
		return dom.Task{}, ErrTaskNotFound
	}
	completed := c.tasks[i].Completed
	c.mu.Unlock()

	candidate := form.Clean(dom.Task{
		Title:       fields.Title,
		Description: fields.Description,
		Priority:    fields.Priority,
		DueDate:     fields.DueDate,
	})
	if err := form.Validate(candidate, c.today()); err != nil {
		return dom.Task{}, err
	}
	candidate.Completed = completed

	updated, err := c.api.ReplaceTask(ctx, sess.Token, id, candidate)
	if err != nil {
		return dom.Task{}, err
	}

	c.mu.Lock()
	if j := c.index(id); j >= 0 {
		c.tasks[j] = updated
	}
	c.mu.Unlock()
	return updated, nil
}

// Remove deletes a task. The confirmation gate is part of the contract:
// without a confirming func no request is sent and nothing changes
// locally. The task leaves the collection only after the server accepts
// the delete.
func (c *Collection) Remove(ctx context.Context, id int64, confirm ConfirmFunc) error {
	sess, err := c.creds()
	if err != nil {
		return err
	}

	c.mu.Lock()
	i := c.index(id)
	if i < 0 {
		c.mu.Unlock()
		return ErrTaskNotFound
	}
	t := c.tasks[i]
	c.mu.Unlock()

	if confirm == nil || !confirm(t) {
		return ErrNotConfirmed
	}

	if err := c.api.DeleteTask(ctx, sess.Token, id); err != nil {
		return err
	}

	c.mu.Lock()
	if j := c.index(id); j >= 0 {
		c.tasks = append(c.tasks[:j], c.tasks[j+1:]...)
	}
	c.mu.Unlock()
	return nil
}

// FilteredView returns an order-preserving copy of the tasks matching
// the filter. Pure read, recomputed on demand.
func (c *Collection) FilteredView(filter dom.Filter) []dom.Task {
	today := c.today()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]dom.Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		if filter.Matches(t, today) {
			out = append(out, t)
		}
	}
	return out
}

// Counts are the per-filter tallies shown next to the filter buttons.
type Counts struct {
	All       int
	Pending   int
	Completed int
	Overdue   int
}

// Counts tallies the collection for every filter at once.
func (c *Collection) Counts() Counts {
	today := c.today()
	c.mu.Lock()
	defer c.mu.Unlock()
	var n Counts
	for _, t := range c.tasks {
		n.All++
		if t.Completed {
			n.Completed++
		} else {
			n.Pending++
		}
		if t.Overdue(today) {
			n.Overdue++
		}
	}
	return n
}

// Clear drops the local collection, for logout.
func (c *Collection) Clear() {
	c.mu.Lock()
	c.tasks = nil
	c.mu.Unlock()
}
