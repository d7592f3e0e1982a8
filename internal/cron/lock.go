package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/hearth-storefront/pkg/instance"
)

// defaultLockTTL outlives a browser-state purge over a large table; a lock
// left behind by a crashed instance frees itself after it.
const defaultLockTTL = 5 * time.Minute

// ErrLockLost reports that the housekeeping lock expired or changed hands
// while this instance was still running shared jobs.
var ErrLockLost = errors.New("housekeeping lock lost")

// Lock gates the jobs that must run on one instance at a time.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// lockStore is the slice of pkg/redis the lock needs.
type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisLock stores "<instance>:<uuid>" under key so an operator can see which
// dyno is purging, and so only that holder deletes it.
type RedisLock struct {
	store lockStore
	key   string
	ttl   time.Duration
	held  string
}

func NewRedisLock(store lockStore, key string, ttl time.Duration) (*RedisLock, error) {
	switch {
	case store == nil:
		return nil, errors.New("redis client required for housekeeping lock")
	case key == "":
		return nil, errors.New("housekeeping lock key is required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLock{store: store, key: key, ttl: ttl}, nil
}

func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	holder := fmt.Sprintf("%s:%s", instance.ID(), uuid.NewString())
	won, err := l.store.SetNX(ctx, l.key, holder, l.ttl)
	if err != nil {
		return false, fmt.Errorf("acquire %s: %w", l.key, err)
	}
	if won {
		l.held = holder
	}
	return won, nil
}

// Release deletes the key when this instance still holds it. A key that
// expired or now names another holder is left alone and ErrLockLost returned.
func (l *RedisLock) Release(ctx context.Context) error {
	if l.held == "" {
		return nil
	}
	holder := l.held
	l.held = ""

	current, err := l.store.Get(ctx, l.key)
	switch {
	case errors.Is(err, redis.Nil):
		return ErrLockLost
	case err != nil:
		return fmt.Errorf("read holder of %s: %w", l.key, err)
	case current != holder:
		return fmt.Errorf("%w: now held by %s", ErrLockLost, current)
	}
	if err := l.store.Del(ctx, l.key); err != nil {
		return fmt.Errorf("release %s: %w", l.key, err)
	}
	return nil
}
