package service

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	dom "github.com/grpansare/task-management/internal/domain"
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

func validTask() dom.Task {
	return dom.Task{Title: "Buy milk", Description: "two liters", Priority: dom.PriorityMedium}
}

func TestTaskServiceCreate(t *testing.T) {
	r := new(mockTaskRepo)
	s := NewTaskService(r, nil)

	stored := validTask()
	stored.ID = 5
	r.On("Create", mock.Anything, int64(1), validTask()).Return(stored, nil)

	got, err := s.Create(context.Background(), 1, validTask())
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
	r.AssertExpectations(t)
}

func TestTaskServiceCreate_TrimsAndDefaultsPriority(t *testing.T) {
	r := new(mockTaskRepo)
	s := NewTaskService(r, nil)

	want := validTask()
	r.On("Create", mock.Anything, int64(1), want).Return(want, nil)

	_, err := s.Create(context.Background(), 1, dom.Task{
		Title:       "  Buy milk  ",
		Description: " two liters ",
	})
	require.NoError(t, err)
	r.AssertExpectations(t)
}

func TestTaskServiceCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dom.Task)
		detail string
	}{
		{"empty title", func(t *dom.Task) { t.Title = " " }, "title required"},
		{"short title", func(t *dom.Task) { t.Title = "ab" }, "title too short"},
		{"long title", func(t *dom.Task) { t.Title = strings.Repeat("a", 51) }, "title too long"},
		{"empty description", func(t *dom.Task) { t.Description = "" }, "description required"},
		{"short description", func(t *dom.Task) { t.Description = "no" }, "description too short"},
		{"long description", func(t *dom.Task) { t.Description = strings.Repeat("d", 201) }, "description too long"},
		{"bad priority", func(t *dom.Task) { t.Priority = "URGENT" }, "priority"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := new(mockTaskRepo)
			s := NewTaskService(r, nil)
			in := validTask()
			tc.mutate(&in)

			_, err := s.Create(context.Background(), 1, in)
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tc.detail)
			r.AssertNotCalled(t, "Create")
		})
	}
}

func TestTaskServiceList(t *testing.T) {
	r := new(mockTaskRepo)
	s := NewTaskService(r, nil)

	list := []dom.Task{{ID: 1, Title: "Buy milk"}, {ID: 2, Title: "Pay rent"}}
	r.On("ListByUser", mock.Anything, int64(1)).Return(list, nil)

	got, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, list, got)
}

func TestTaskServiceReplace_Ownership(t *testing.T) {
	r := new(mockTaskRepo)
	s := NewTaskService(r, nil)

	r.On("GetByID", mock.Anything, int64(9)).Return(dom.Task{ID: 9}, int64(2), nil)

	_, err := s.Replace(context.Background(), 1, 9, validTask())
	require.ErrorIs(t, err, ErrForbidden)
	r.AssertNotCalled(t, "Replace")
}

func TestTaskServiceReplace_NotFound(t *testing.T) {
	r := new(mockTaskRepo)
	s := NewTaskService(r, nil)

	r.On("GetByID", mock.Anything, int64(9)).Return(dom.Task{}, int64(0), pgx.ErrNoRows)

	_, err := s.Replace(context.Background(), 1, 9, validTask())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskServiceSetStatus(t *testing.T) {
	r := new(mockTaskRepo)
	s := NewTaskService(r, nil)

	done := validTask()
	done.ID = 9
	done.Completed = true
	r.On("GetByID", mock.Anything, int64(9)).Return(validTask(), int64(1), nil)
	r.On("SetCompleted", mock.Anything, int64(9), true).Return(done, nil)

	got, err := s.SetStatus(context.Background(), 1, 9, true)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	r.AssertExpectations(t)
}

func TestTaskServiceDelete(t *testing.T) {
	r := new(mockTaskRepo)
	s := NewTaskService(r, nil)

	r.On("GetByID", mock.Anything, int64(9)).Return(dom.Task{ID: 9}, int64(1), nil)
	r.On("Delete", mock.Anything, int64(9)).Return(nil)

	require.NoError(t, s.Delete(context.Background(), 1, 9))
	r.AssertExpectations(t)
}

func TestTaskServiceDelete_ForeignTask(t *testing.T) {
	r := new(mockTaskRepo)
	s := NewTaskService(r, nil)

	r.On("GetByID", mock.Anything, int64(9)).Return(dom.Task{ID: 9}, int64(2), nil)

	err := s.Delete(context.Background(), 1, 9)
	require.ErrorIs(t, err, ErrForbidden)
	r.AssertNotCalled(t, "Delete")
}
