package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	dom "github.com/grpansare/task-management/internal/domain"
	"github.com/grpansare/task-management/internal/dto"
)

var (
	// ErrAuth marks rejected credentials: 401/403 replies and calls
	// attempted without an active session.
	ErrAuth = errors.New("authorization rejected")
	// ErrNetwork marks transport failures, malformed responses and any
	// other non-2xx reply.
	ErrNetwork = errors.New("network error")
)

// Client wraps the task API over plain HTTP. Every task call carries
// the bearer token it is given; the client itself is stateless.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the API rooted at baseURL.
// If timeout <= 0 a 15s default applies.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (dto.AuthResponse, error) {
	var out dto.AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", "",
		dto.LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	return out, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/register", "",
		dto.RegisterRequest{Username: username, Email: email, Password: password}, nil)
}

// ListTasks fetches all tasks of the given user.
func (c *Client) ListTasks(ctx context.Context, token string, userID int64) ([]dom.Task, error) {
	var wire []dto.TaskResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/tasks/"+strconv.FormatInt(userID, 10), token, nil, &wire)
	if err != nil {
		return nil, err
	}
	list := make([]dom.Task, len(wire))
	for i := range wire {
		list[i] = wire[i].Task()
	}
	return list, nil
}

// CreateTask creates a task for the account behind userEmail and returns
// the stored task with its server-assigned id.
func (c *Client) CreateTask(ctx context.Context, token, userEmail string, t dom.Task) (dom.Task, error) {
	var wire dto.TaskResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/tasks/"+url.PathEscape(userEmail), token, taskPayload(t), &wire)
	if err != nil {
		return dom.Task{}, err
	}
	return wire.Task(), nil
}

// ReplaceTask overwrites every field of the task and returns the stored result.
func (c *Client) ReplaceTask(ctx context.Context, token string, id int64, t dom.Task) (dom.Task, error) {
	var wire dto.TaskResponse
	err := c.doJSON(ctx, http.MethodPut, "/api/tasks/"+strconv.FormatInt(id, 10), token, taskPayload(t), &wire)
	if err != nil {
		return dom.Task{}, err
	}
	return wire.Task(), nil
}

// PatchStatus sets only the completed flag and returns the server's
// representation of the task.
func (c *Client) PatchStatus(ctx context.Context, token string, id int64, completed bool) (dom.Task, error) {
	var wire dto.TaskResponse
	err := c.doJSON(ctx, http.MethodPatch, "/api/tasks/"+strconv.FormatInt(id, 10)+"/status", token,
		dto.StatusUpdateRequest{Completed: &completed}, &wire)
	if err != nil {
		return dom.Task{}, err
	}
	return wire.Task(), nil
}

// DeleteTask removes the task.
func (c *Client) DeleteTask(ctx context.Context, token string, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/tasks/"+strconv.FormatInt(id, 10), token, nil, nil)
}

func taskPayload(t dom.Task) dto.TaskPayload {
	return dto.TaskPayload{
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Completed:   t.Completed,
	}
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", ErrNetwork, err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: status %d%s", ErrAuth, resp.StatusCode, serverMessage(resp))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d%s", ErrNetwork, resp.StatusCode, serverMessage(resp))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrNetwork, err)
	}
	return nil
}

// serverMessage extracts the {"error": "..."} detail, if the body has one.
func serverMessage(resp *http.Response) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error == "" {
		return ""
	}
	return ": " + payload.Error
}
