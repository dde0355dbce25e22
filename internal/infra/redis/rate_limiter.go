package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter throttles bot commands per user over a fixed window. A
// zone analysis already takes minutes of remote task time, so the
// limiter only has to stop command spam, not shape sustained traffic.
type RateLimiter struct {
	client *Client
}

func NewRateLimiter(client *Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow counts one invocation against the key and reports whether it
// stays within limit. The window starts on the first invocation; keys
// expire on their own, nothing is cleaned up explicitly.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, window); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// UserCommandKey scopes the limit to one user and one command, so a
// burst of /analyze calls does not lock the user out of /help.
func UserCommandKey(userID int64, command string) string {
	return fmt.Sprintf("cmd_rate:%d:%s", userID, command)
}
