package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/groveboard/grove-backend/internal/common"
)

// SpamGuard rate-limits publish actions per actor. One successful Check
// opens a cooldown window; a second attempt inside it is rejected.
type SpamGuard interface {
	Check(ctx context.Context, memberID int, action string) error
}

type redisSpamGuard struct {
	client *redis.Client
	window time.Duration
}

// NewRedisSpamGuard creates a Redis-backed spam guard.
func NewRedisSpamGuard(client *redis.Client, window time.Duration) SpamGuard {
	return &redisSpamGuard{client: client, window: window}
}

func spamKey(memberID int, action string) string {
	return fmt.Sprintf("floodcontrol:%d:%s", memberID, action)
}

func (g *redisSpamGuard) Check(ctx context.Context, memberID int, action string) error {
	ok, err := g.client.SetNX(ctx, spamKey(memberID, action), 1, g.window).Result()
	if err != nil {
		// Redis trouble should not take posting down with it.
		return nil
	}
	if !ok {
		return common.ErrFloodControl
	}
	return nil
}

// memorySpamGuard is the fallback when Redis is not wired.
type memorySpamGuard struct {
	mu     sync.Mutex
	last   map[string]time.Time
	window time.Duration
}

// NewMemorySpamGuard creates an in-process spam guard.
func NewMemorySpamGuard(window time.Duration) SpamGuard {
	return &memorySpamGuard{last: make(map[string]time.Time), window: window}
}

func (g *memorySpamGuard) Check(_ context.Context, memberID int, action string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := spamKey(memberID, action)
	if at, ok := g.last[key]; ok && time.Since(at) < g.window {
		return common.ErrFloodControl
	}
	g.last[key] = time.Now()
	return nil
}
