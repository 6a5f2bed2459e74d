package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	dom "github.com/grpansare/task-management/internal/domain"
	"github.com/grpansare/task-management/internal/dto"
)

const keyListPrefix = "tasks:list:"

// TaskCache caches per-user task lists in Redis. Lists are stored in
// their wire shape so the cached dueDate stays date-only.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

func listKey(userID int64) string {
	return keyListPrefix + strconv.FormatInt(userID, 10)
}

// GetList returns the cached list for a user, or nil on miss.
func (c *TaskCache) GetList(ctx context.Context, userID int64) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, listKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var wire []dto.TaskResponse
	if err := json.Unmarshal(b, &wire); err != nil {
		return nil, err
	}
	list := make([]dom.Task, len(wire))
	for i := range wire {
		list[i] = wire[i].Task()
	}
	return list, nil
}

// SetList stores the user's list.
func (c *TaskCache) SetList(ctx context.Context, userID int64, list []dom.Task) error {
	b, err := json.Marshal(dto.FromTasks(list))
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(userID), b, c.ttl).Err()
}

// Invalidate drops the user's cached list after any write.
func (c *TaskCache) Invalidate(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, listKey(userID)).Err()
}
