package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RunLocker is the single-flight guard around a daily checks run. The
// scheduler and the manual admin trigger share one lock, so two runs never
// evaluate concurrently and the read-then-create dedupe stays safe.
type RunLocker interface {
	// TryAcquire attempts to take the lock, returning false when another
	// run already holds it.
	TryAcquire(ctx context.Context, ttl time.Duration) (bool, error)

	// Release frees the lock after a run completes.
	Release(ctx context.Context) error

	// Held reports whether a run currently holds the lock, without taking it.
	Held(ctx context.Context) (bool, error)
}

const runLockKey = "collections:daily_checks:lock"

type redisRunLocker struct {
	client *redis.Client
}

func NewRedisRunLocker(client *redis.Client) RunLocker {
	return &redisRunLocker{client: client}
}

func (l *redisRunLocker) TryAcquire(ctx context.Context, ttl time.Duration) (bool, error) {
	// The TTL covers crashed runs that never release.
	return l.client.SetNX(ctx, runLockKey, "1", ttl).Result()
}

func (l *redisRunLocker) Release(ctx context.Context) error {
	return l.client.Del(ctx, runLockKey).Err()
}

func (l *redisRunLocker) Held(ctx context.Context) (bool, error) {
	n, err := l.client.Exists(ctx, runLockKey).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
