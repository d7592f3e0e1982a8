// Package localstore persists per-browser client state (cart contents and the
// session token) keyed by browser session id.
package localstore

import (
	"context"
	"strings"
)

const (
	KeyCart  = "cart"
	KeyToken = "token"
)

// Store is a namespaced string key/value store. Get reports ok=false when the
// entry does not exist.
type Store interface {
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
}

// Scope binds a Store to a single browser session.
type Scope struct {
	store     Store
	namespace string
}

func NewScope(store Store, namespace string) Scope {
	return Scope{store: store, namespace: strings.TrimSpace(namespace)}
}

func (s Scope) Namespace() string {
	return s.namespace
}

func (s Scope) Get(ctx context.Context, key string) (string, bool, error) {
	return s.store.Get(ctx, s.namespace, key)
}

func (s Scope) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, s.namespace, key, value)
}

func (s Scope) Delete(ctx context.Context, key string) error {
	return s.store.Delete(ctx, s.namespace, key)
}
