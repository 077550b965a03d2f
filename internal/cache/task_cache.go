package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const taskTTL = time.Hour

// TaskCache keeps recently read task records in redis, keyed by task id.
// Every operation is best-effort: a miss or a redis failure just sends
// the caller to the store. A nil *TaskCache is valid and disables
// caching entirely.
type TaskCache struct {
	client *redis.Client
}

func NewTaskCache(client *redis.Client) *TaskCache {
	return &TaskCache{client: client}
}

func key(taskID string) string {
	return "task:" + taskID
}

// Get unmarshals the cached entry into dest and reports whether it was
// found.
func (c *TaskCache) Get(ctx context.Context, taskID string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key(taskID)).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

func (c *TaskCache) Set(ctx context.Context, taskID string, value any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key(taskID), raw, taskTTL)
}

func (c *TaskCache) Invalidate(ctx context.Context, taskID string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, key(taskID))
}
