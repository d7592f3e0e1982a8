// Package cart holds the guest's selected room configurations for one browser
// session and writes them through to the browser state store.
package cart

import (
	"context"
	"sync"

	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/localstore"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
)

// Store is the cart of a single browser session. Every mutation persists the
// whole cart before it returns; a failed write leaves the cart unchanged.
type Store struct {
	mu    sync.Mutex
	scope localstore.Scope
	logg  *logger.Logger
	items []Item
}

// New builds an empty cart bound to namespace. Call Hydrate to load what was
// persisted.
func New(storage localstore.Store, namespace string, logg *logger.Logger) (*Store, error) {
	if storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart storage required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{
		scope: localstore.NewScope(storage, namespace),
		logg:  logg,
	}, nil
}

// Hydrate replaces the in-memory cart with the persisted one. It never fails:
// missing, corrupt or unreadable state yields an empty cart.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	ctx = s.logg.WithSessionID(ctx, s.scope.Namespace())

	raw, ok, err := s.scope.Get(ctx, localstore.KeyCart)
	if err != nil {
		s.logg.Error(ctx, "cart hydrate failed", err)
		return
	}
	if !ok {
		return
	}

	res := decode(raw)
	if res.discarded != "" {
		s.logg.Warn(s.logg.WithField(ctx, "reason", res.discarded), "discarding stored cart")
		return
	}
	s.items = res.items
	if res.migrated {
		if err := s.persistLocked(ctx, s.items); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart migration write failed")
			return
		}
		s.logg.Info(s.logg.WithField(ctx, "items", len(s.items)), "migrated legacy cart")
	}
}

// Items returns a snapshot of the cart in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Contains reports whether key is in the cart.
func (s *Store) Contains(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(key) >= 0
}

// Add appends item unless the same room and room type is already present, in
// which case it reports false and does nothing.
func (s *Store) Add(ctx context.Context, item Item) (bool, error) {
	key := item.Key()
	if err := key.validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(key) >= 0 {
		return false, nil
	}
	next := make([]Item, 0, len(s.items)+1)
	next = append(next, s.items...)
	next = append(next, item)
	if err := s.commitLocked(ctx, next); err != nil {
		s.logg.Error(s.logg.WithCartLine(ctx, key.RoomID, key.RoomType), "cart add not persisted", err)
		return false, err
	}
	return true, nil
}

// Remove drops the line for key. Removing an absent key is a no-op.
func (s *Store) Remove(ctx context.Context, key Key) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(key)
	if idx < 0 {
		return false, nil
	}
	next := make([]Item, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	if err := s.commitLocked(ctx, next); err != nil {
		s.logg.Error(s.logg.WithCartLine(ctx, key.RoomID, key.RoomType), "cart removal not persisted", err)
		return false, err
	}
	return true, nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(ctx, nil)
}

func (s *Store) indexLocked(key Key) int {
	for i, item := range s.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

func (s *Store) commitLocked(ctx context.Context, next []Item) error {
	if err := s.persistLocked(ctx, next); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	s.items = next
	return nil
}

func (s *Store) persistLocked(ctx context.Context, items []Item) error {
	raw, err := encode(items)
	if err != nil {
		return err
	}
	return s.scope.Set(ctx, localstore.KeyCart, raw)
}
