package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockoutStore counts failed login attempts per key within a rolling window.
// Keys combine identifier and client IP so one address cannot burn a shared
// account's budget from elsewhere.
type LockoutStore interface {
	// Fail records a failure and returns the current count in the window.
	Fail(ctx context.Context, key string) (int, error)
	// Count returns the current failure count without recording one.
	Count(ctx context.Context, key string) (int, error)
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, key string) error
}

// InMemoryLockoutStore is the default single-process implementation.
type InMemoryLockoutStore struct {
	window time.Duration

	mu       sync.Mutex
	failures map[string][]time.Time
}

func NewInMemoryLockoutStore(window time.Duration) *InMemoryLockoutStore {
	return &InMemoryLockoutStore{window: window, failures: make(map[string][]time.Time)}
}

func (s *InMemoryLockoutStore) prune(key string, now time.Time) []time.Time {
	kept := s.failures[key][:0]
	for _, t := range s.failures[key] {
		if now.Sub(t) < s.window {
			kept = append(kept, t)
		}
	}
	s.failures[key] = kept
	return kept
}

func (s *InMemoryLockoutStore) Fail(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.failures[key] = append(s.prune(key, now), now)
	return len(s.failures[key]), nil
}

func (s *InMemoryLockoutStore) Count(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prune(key, time.Now())), nil
}

func (s *InMemoryLockoutStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, key)
	return nil
}

// RedisLockoutStore shares lockout state across replicas. Counter keys expire
// with the window so stale entries clean themselves up.
type RedisLockoutStore struct {
	client *redis.Client
	window time.Duration
}

func NewRedisLockoutStore(client *redis.Client, window time.Duration) *RedisLockoutStore {
	return &RedisLockoutStore{client: client, window: window}
}

func lockoutKey(key string) string {
	return "lockout:" + key
}

func (s *RedisLockoutStore) Fail(ctx context.Context, key string) (int, error) {
	k := lockoutKey(key)
	count, err := s.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("lockout: incr %s: %w", k, err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, k, s.window).Err(); err != nil {
			return int(count), fmt.Errorf("lockout: expire %s: %w", k, err)
		}
	}
	return int(count), nil
}

func (s *RedisLockoutStore) Count(ctx context.Context, key string) (int, error) {
	count, err := s.client.Get(ctx, lockoutKey(key)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("lockout: get %s: %w", key, err)
	}
	return count, nil
}

func (s *RedisLockoutStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, lockoutKey(key)).Err(); err != nil {
		return fmt.Errorf("lockout: del %s: %w", key, err)
	}
	return nil
}
