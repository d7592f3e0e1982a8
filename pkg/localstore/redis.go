package localstore

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/hearth-storefront/pkg/redis"
)

type redisStateClient interface {
	Get(ctx context.Context, key string) (string, error)
	GetEx(ctx context.Context, key string, ttl time.Duration) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	StateKey(namespace, key string) string
}

// Redis stores each entry under hs:state:<namespace>:<key> with a sliding TTL:
// reads and writes both push the expiry out. A zero ttl keeps entries forever.
type Redis struct {
	client redisStateClient
	ttl    time.Duration
}

func NewRedis(client redisStateClient, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	stateKey := r.client.StateKey(namespace, key)
	var (
		v   string
		err error
	)
	if r.ttl > 0 {
		v, err = r.client.GetEx(ctx, stateKey, r.ttl)
	} else {
		v, err = r.client.Get(ctx, stateKey)
	}
	if redis.IsNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, namespace, key, value string) error {
	if err := r.client.Set(ctx, r.client.StateKey(namespace, key), value, r.ttl); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, namespace, key string) error {
	if err := r.client.Del(ctx, r.client.StateKey(namespace, key)); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
