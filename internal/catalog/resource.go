package catalog

import (
	"context"
	"sync"

	"github.com/angelmondragon/hearth-storefront/pkg/backend"
)

// Snapshot is the observable state of one fetched resource.
type Snapshot[T any] struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Value   T      `json:"value"`
}

// resource keeps the last fetched value of T in memory only. Each fetch
// replaces it; a failed fetch keeps the previous value and records the error.
type resource[T any] struct {
	mu       sync.Mutex
	inFlight int
	err      string
	value    T
	fallback string
}

func (r *resource[T]) fetch(ctx context.Context, load func(context.Context) (T, error)) (T, error) {
	r.mu.Lock()
	r.inFlight++
	r.err = ""
	r.mu.Unlock()

	value, err := load(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight--
	if err != nil {
		msg := backend.MessageOf(err)
		if msg == "" {
			msg = r.fallback
		}
		r.err = msg
		var zero T
		return zero, err
	}
	r.value = value
	return value, nil
}

func (r *resource[T]) snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot[T]{Loading: r.inFlight > 0, Error: r.err, Value: r.value}
}
