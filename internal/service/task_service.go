package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"github.com/grpansare/task-management/internal/cache"
	dom "github.com/grpansare/task-management/internal/domain"
	"github.com/grpansare/task-management/internal/repo"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation error")
)

// TaskService owns the business rules for tasks: field constraints,
// ownership checks, and cache maintenance around every write.
type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache) *TaskService {
	return &TaskService{repo: r, cache: c}
}

// checkFields enforces the same bounds the web client validates:
// title 3..50 and description 3..200 characters after trimming.
func checkFields(t *dom.Task) error {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	switch n := len([]rune(t.Title)); {
	case n == 0:
		return fmt.Errorf("%w: title required", ErrValidation)
	case n < 3:
		return fmt.Errorf("%w: title too short", ErrValidation)
	case n > 50:
		return fmt.Errorf("%w: title too long", ErrValidation)
	}
	switch n := len([]rune(t.Description)); {
	case n == 0:
		return fmt.Errorf("%w: description required", ErrValidation)
	case n < 3:
		return fmt.Errorf("%w: description too short", ErrValidation)
	case n > 200:
		return fmt.Errorf("%w: description too long", ErrValidation)
	}
	if t.Priority == "" {
		t.Priority = dom.PriorityMedium
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("%w: priority must be LOW, MEDIUM or HIGH", ErrValidation)
	}
	return nil
}

func (s *TaskService) Create(ctx context.Context, userID int64, t dom.Task) (dom.Task, error) {
	if err := checkFields(&t); err != nil {
		return dom.Task{}, err
	}
	created, err := s.repo.Create(ctx, userID, t)
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return created, nil
}

func (s *TaskService) List(ctx context.Context, userID int64) ([]dom.Task, error) {
	if s.cache == nil {
		return s.repo.ListByUser(ctx, userID)
	}
	key := "list:" + strconv.FormatInt(userID, 10)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx, userID); err == nil && list != nil {
			return list, nil
		}
		list, err := s.repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetList(ctx, userID, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Task), nil
}

// Replace overwrites every field of the task except its id and owner.
func (s *TaskService) Replace(ctx context.Context, userID, taskID int64, t dom.Task) (dom.Task, error) {
	if err := checkFields(&t); err != nil {
		return dom.Task{}, err
	}
	if err := s.checkOwner(ctx, userID, taskID); err != nil {
		return dom.Task{}, err
	}
	updated, err := s.repo.Replace(ctx, taskID, t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return updated, nil
}

func (s *TaskService) SetStatus(ctx context.Context, userID, taskID int64, completed bool) (dom.Task, error) {
	if err := s.checkOwner(ctx, userID, taskID); err != nil {
		return dom.Task{}, err
	}
	updated, err := s.repo.SetCompleted(ctx, taskID, completed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	if err := s.checkOwner(ctx, userID, taskID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *TaskService) checkOwner(ctx context.Context, userID, taskID int64) error {
	_, ownerID, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if ownerID != userID {
		return ErrForbidden
	}
	return nil
}

func (s *TaskService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
