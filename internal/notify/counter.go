package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Counter keeps per-user unread notification counts in Redis so the badge
// in the web UI can be read without touching Postgres.
type Counter struct {
	rdb *redis.Client
}

// NewCounter constructs a Counter.
func NewCounter(rdb *redis.Client) *Counter {
	return &Counter{rdb: rdb}
}

func unreadKey(userID int64) string {
	return fmt.Sprintf("notify:unread:%d", userID)
}

// Increment bumps the unread count for a user.
func (c *Counter) Increment(ctx context.Context, userID int64) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("notify: counter not initialised")
	}
	return c.rdb.Incr(ctx, unreadKey(userID)).Err()
}

// Unread returns the current unread count for a user. A missing key reads
// as zero.
func (c *Counter) Unread(ctx context.Context, userID int64) (int64, error) {
	if c == nil || c.rdb == nil {
		return 0, fmt.Errorf("notify: counter not initialised")
	}
	n, err := c.rdb.Get(ctx, unreadKey(userID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

// Reset clears the unread count, used when the user opens the list.
func (c *Counter) Reset(ctx context.Context, userID int64) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("notify: counter not initialised")
	}
	return c.rdb.Del(ctx, unreadKey(userID)).Err()
}
