package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrSweepInProgress is returned when another sweep holds the lock
var ErrSweepInProgress = errors.New("a reminder sweep is already in progress")

// SweepLock keeps two sweeps from running at the same time
type SweepLock interface {
	// TryAcquire returns a release func, or ErrSweepInProgress when the lock is held
	TryAcquire(ctx context.Context) (func(), error)
}

// LocalLock guards sweeps within a single process
type LocalLock struct {
	mu sync.Mutex
}

func (l *LocalLock) TryAcquire(context.Context) (func(), error) {
	if !l.mu.TryLock() {
		return nil, ErrSweepInProgress
	}
	return l.mu.Unlock, nil
}

const sweepLockKey = "swagplan:reminder-sweep"

// compare-and-delete so an expired holder never releases someone else's lock
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock guards sweeps across every process sharing one redis
type RedisLock struct {
	client *redis.Client
	ttl    time.Duration
	key    string
	log    *zap.Logger
}

func NewRedisLock(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisLock {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisLock{client: client, ttl: ttl, key: sweepLockKey, log: log}
}

func (l *RedisLock) TryAcquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sweep lock: %w", err)
	}
	if !ok {
		return nil, ErrSweepInProgress
	}
	return func() {
		// the caller's context may already be cancelled
		if err := releaseScript.Run(context.Background(), l.client, []string{l.key}, token).Err(); err != nil {
			// the key still expires after ttl
			l.log.Warn("failed to release sweep lock", zap.String("key", l.key), zap.Error(err))
		}
	}, nil
}
