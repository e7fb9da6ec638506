package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/groveboard/grove-backend/internal/common"
)

// TokenService issues single-use submit tokens with the compose form and
// consumes them at publish time. A token that was already consumed (or
// never issued) makes the submission a fatal replay.
type TokenService interface {
	Issue(ctx context.Context, memberID int) (string, error)
	Consume(ctx context.Context, memberID int, token string) error
}

type redisTokenService struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTokenService creates a Redis-backed token service.
func NewRedisTokenService(client *redis.Client, ttl time.Duration) TokenService {
	return &redisTokenService{client: client, ttl: ttl}
}

func tokenKey(memberID int, token string) string {
	return fmt.Sprintf("submitonce:%d:%s", memberID, token)
}

func (s *redisTokenService) Issue(ctx context.Context, memberID int) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, tokenKey(memberID, token), 1, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Consume removes the token atomically; a second consume of the same
// token fails, which is what makes resubmits fatal rather than silent.
func (s *redisTokenService) Consume(ctx context.Context, memberID int, token string) error {
	if token == "" {
		return common.ErrDuplicateSubmission
	}
	n, err := s.client.GetDel(ctx, tokenKey(memberID, token)).Result()
	if err == redis.Nil || n == "" {
		return common.ErrDuplicateSubmission
	}
	return err
}

// memoryTokenService is the fallback when Redis is not wired.
type memoryTokenService struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	ttl    time.Duration
}

// NewMemoryTokenService creates an in-process token service.
func NewMemoryTokenService(ttl time.Duration) TokenService {
	return &memoryTokenService{tokens: make(map[string]time.Time), ttl: ttl}
}

func (s *memoryTokenService) Issue(_ context.Context, memberID int) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenKey(memberID, token)] = time.Now().Add(s.ttl)
	return token, nil
}

func (s *memoryTokenService) Consume(_ context.Context, memberID int, token string) error {
	if token == "" {
		return common.ErrDuplicateSubmission
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := tokenKey(memberID, token)
	expiry, ok := s.tokens[key]
	if !ok || time.Now().After(expiry) {
		return common.ErrDuplicateSubmission
	}
	delete(s.tokens, key)
	return nil
}
