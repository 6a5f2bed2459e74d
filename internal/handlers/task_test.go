package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grpansare/task-management/internal/auth"
	dom "github.com/grpansare/task-management/internal/domain"
	"github.com/grpansare/task-management/internal/service"
)

type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Create(ctx context.Context, userID int64, t dom.Task) (dom.Task, error) {
	args := m.Called(ctx, userID, t)
	return args.Get(0).(dom.Task), args.Error(1)
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id int64) (dom.Task, int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(dom.Task), args.Get(1).(int64), args.Error(2)
}

func (m *mockTaskRepo) ListByUser(ctx context.Context, userID int64) ([]dom.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dom.Task), args.Error(1)
}

func (m *mockTaskRepo) Replace(ctx context.Context, id int64, t dom.Task) (dom.Task, error) {
	args := m.Called(ctx, id, t)
	return args.Get(0).(dom.Task), args.Error(1)
}

func (m *mockTaskRepo) SetCompleted(ctx context.Context, id int64, completed bool) (dom.Task, error) {
	args := m.Called(ctx, id, completed)
	return args.Get(0).(dom.Task), args.Error(1)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type stubUsers struct {
	user dom.User
}

func (s stubUsers) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	return s.user, nil
}

// newTaskRouter builds the /api/tasks routes the way the app wires
// them, backed by a mock repo, and returns a valid token for caller.
func newTaskRouter(t *testing.T, repo *mockTaskRepo, caller dom.User) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.Generate(caller.Email)
	require.NoError(t, err)

	h := NewTaskHandler(service.NewTaskService(repo, nil), zap.NewNop())
	r := gin.New()
	api := r.Group("/api", auth.RequireBearer(tokens, stubUsers{user: caller}))
	tasks := api.Group("/tasks")
	tasks.GET("/:id", h.List)
	tasks.POST("/:id", h.Create)
	tasks.PUT("/:id", h.Replace)
	tasks.PATCH("/:id/status", h.SetStatus)
	tasks.DELETE("/:id", h.Delete)
	return r, token
}

func doRequest(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var ann = dom.User{ID: 1, Username: "ann", Email: "ann@example.com"}

func TestListTasks(t *testing.T) {
	repo := new(mockTaskRepo)
	repo.On("ListByUser", mock.Anything, int64(1)).Return([]dom.Task{
		{ID: 1, Title: "Buy milk", Description: "two liters", Priority: dom.PriorityMedium},
	}, nil)
	r, token := newTaskRouter(t, repo, ann)

	w := doRequest(r, http.MethodGet, "/api/tasks/1", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Buy milk"`)
	assert.Contains(t, w.Body.String(), `"dueDate":null`)
}

func TestListTasks_OtherUserForbidden(t *testing.T) {
	repo := new(mockTaskRepo)
	r, token := newTaskRouter(t, repo, ann)

	w := doRequest(r, http.MethodGet, "/api/tasks/2", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	repo.AssertNotCalled(t, "ListByUser")
}

func TestListTasks_NoToken(t *testing.T) {
	r, _ := newTaskRouter(t, new(mockTaskRepo), ann)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateTask(t *testing.T) {
	repo := new(mockTaskRepo)
	repo.On("Create", mock.Anything, int64(1), mock.AnythingOfType("domain.Task")).
		Return(dom.Task{ID: 7, Title: "Buy milk", Description: "two liters", Priority: dom.PriorityMedium}, nil)
	r, token := newTaskRouter(t, repo, ann)

	w := doRequest(r, http.MethodPost, "/api/tasks/ann@example.com", token,
		`{"title":"Buy milk","description":"two liters"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":7`)
}

func TestCreateTask_ForeignEmailForbidden(t *testing.T) {
	repo := new(mockTaskRepo)
	r, token := newTaskRouter(t, repo, ann)

	w := doRequest(r, http.MethodPost, "/api/tasks/bob@example.com", token,
		`{"title":"Buy milk","description":"two liters"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateTask_ValidationError(t *testing.T) {
	repo := new(mockTaskRepo)
	r, token := newTaskRouter(t, repo, ann)

	w := doRequest(r, http.MethodPost, "/api/tasks/ann@example.com", token,
		`{"title":"ab","description":"two liters"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title too short")
}

func TestSetStatus(t *testing.T) {
	repo := new(mockTaskRepo)
	repo.On("GetByID", mock.Anything, int64(5)).Return(dom.Task{ID: 5}, int64(1), nil)
	repo.On("SetCompleted", mock.Anything, int64(5), true).
		Return(dom.Task{ID: 5, Title: "Buy milk", Description: "two liters", Completed: true}, nil)
	r, token := newTaskRouter(t, repo, ann)

	w := doRequest(r, http.MethodPatch, "/api/tasks/5/status", token, `{"completed":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"completed":true`)
}

func TestSetStatus_MissingField(t *testing.T) {
	repo := new(mockTaskRepo)
	r, token := newTaskRouter(t, repo, ann)

	w := doRequest(r, http.MethodPatch, "/api/tasks/5/status", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "SetCompleted")
}

func TestDeleteTask(t *testing.T) {
	repo := new(mockTaskRepo)
	repo.On("GetByID", mock.Anything, int64(5)).Return(dom.Task{ID: 5}, int64(1), nil)
	repo.On("Delete", mock.Anything, int64(5)).Return(nil)
	r, token := newTaskRouter(t, repo, ann)

	w := doRequest(r, http.MethodDelete, "/api/tasks/5", token, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDeleteTask_NotFound(t *testing.T) {
	repo := new(mockTaskRepo)
	repo.On("GetByID", mock.Anything, int64(5)).Return(dom.Task{}, int64(0), pgx.ErrNoRows)
	r, token := newTaskRouter(t, repo, ann)

	w := doRequest(r, http.MethodDelete, "/api/tasks/5", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReplaceTask_ForeignTaskForbidden(t *testing.T) {
	repo := new(mockTaskRepo)
	repo.On("GetByID", mock.Anything, int64(5)).Return(dom.Task{ID: 5}, int64(2), nil)
	r, token := newTaskRouter(t, repo, ann)

	w := doRequest(r, http.MethodPut, "/api/tasks/5", token,
		`{"title":"Buy milk","description":"two liters"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	repo.AssertNotCalled(t, "Replace")
}

func TestInvalidID(t *testing.T) {
	r, token := newTaskRouter(t, new(mockTaskRepo), ann)

	w := doRequest(r, http.MethodDelete, "/api/tasks/abc", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
