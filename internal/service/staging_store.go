package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/groveboard/grove-backend/internal/common"
	"github.com/groveboard/grove-backend/internal/domain"
)

// StagingStore holds staged-attachment metadata keyed by (member,
// context). Temp files live on disk; only the metadata lives here.
type StagingStore interface {
	Put(ctx context.Context, staged *domain.StagedAttachment) error
	Get(ctx context.Context, memberID int, contextKey, key string) (*domain.StagedAttachment, error)
	List(ctx context.Context, memberID int, contextKey string) ([]*domain.StagedAttachment, error)
	Remove(ctx context.Context, memberID int, contextKey, key string) error
	RemoveAll(ctx context.Context, memberID int, contextKey string) error
}

// redisStagingStore keeps staging metadata in a Redis hash per
// (member, context) with a TTL so abandoned sessions age out alongside
// the janitor's temp-file sweep.
type redisStagingStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStagingStore creates a Redis-backed staging store.
func NewRedisStagingStore(client *redis.Client, ttl time.Duration) StagingStore {
	return &redisStagingStore{client: client, ttl: ttl}
}

func stagingKey(memberID int, contextKey string) string {
	return fmt.Sprintf("staging:%d:%s", memberID, contextKey)
}

func (s *redisStagingStore) Put(ctx context.Context, staged *domain.StagedAttachment) error {
	data, err := json.Marshal(staged)
	if err != nil {
		return err
	}
	key := stagingKey(staged.MemberID, staged.Context)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, staged.Key, data)
	pipe.Expire(ctx, key, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *redisStagingStore) Get(ctx context.Context, memberID int, contextKey, key string) (*domain.StagedAttachment, error) {
	data, err := s.client.HGet(ctx, stagingKey(memberID, contextKey), key).Bytes()
	if err == redis.Nil {
		return nil, common.ErrStagedFileNotFound
	}
	if err != nil {
		return nil, err
	}
	var staged domain.StagedAttachment
	if err := json.Unmarshal(data, &staged); err != nil {
		return nil, err
	}
	return &staged, nil
}

func (s *redisStagingStore) List(ctx context.Context, memberID int, contextKey string) ([]*domain.StagedAttachment, error) {
	entries, err := s.client.HGetAll(ctx, stagingKey(memberID, contextKey)).Result()
	if err != nil {
		return nil, err
	}
	staged := make([]*domain.StagedAttachment, 0, len(entries))
	for _, data := range entries {
		var att domain.StagedAttachment
		if err := json.Unmarshal([]byte(data), &att); err != nil {
			continue
		}
		staged = append(staged, &att)
	}
	return staged, nil
}

func (s *redisStagingStore) Remove(ctx context.Context, memberID int, contextKey, key string) error {
	return s.client.HDel(ctx, stagingKey(memberID, contextKey), key).Err()
}

func (s *redisStagingStore) RemoveAll(ctx context.Context, memberID int, contextKey string) error {
	return s.client.Del(ctx, stagingKey(memberID, contextKey)).Err()
}

// memoryStagingStore is the fallback when Redis is not wired. Same
// last-write-wins semantics under a shared context key.
type memoryStagingStore struct {
	mu      sync.RWMutex
	entries map[string]map[string]*domain.StagedAttachment
}

// NewMemoryStagingStore creates an in-process staging store.
func NewMemoryStagingStore() StagingStore {
	return &memoryStagingStore{entries: make(map[string]map[string]*domain.StagedAttachment)}
}

func (s *memoryStagingStore) Put(_ context.Context, staged *domain.StagedAttachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := stagingKey(staged.MemberID, staged.Context)
	if s.entries[key] == nil {
		s.entries[key] = make(map[string]*domain.StagedAttachment)
	}
	s.entries[key][staged.Key] = staged
	return nil
}

func (s *memoryStagingStore) Get(_ context.Context, memberID int, contextKey, key string) (*domain.StagedAttachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	staged, ok := s.entries[stagingKey(memberID, contextKey)][key]
	if !ok {
		return nil, common.ErrStagedFileNotFound
	}
	return staged, nil
}

func (s *memoryStagingStore) List(_ context.Context, memberID int, contextKey string) ([]*domain.StagedAttachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket := s.entries[stagingKey(memberID, contextKey)]
	staged := make([]*domain.StagedAttachment, 0, len(bucket))
	for _, att := range bucket {
		staged = append(staged, att)
	}
	return staged, nil
}

func (s *memoryStagingStore) Remove(_ context.Context, memberID int, contextKey, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries[stagingKey(memberID, contextKey)], key)
	return nil
}

func (s *memoryStagingStore) RemoveAll(_ context.Context, memberID int, contextKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, stagingKey(memberID, contextKey))
	return nil
}
