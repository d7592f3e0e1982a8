package admin

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// uploads tracks in-flight multipart submissions so the admin can abort them
// from a second request.
type uploads struct {
	mu      sync.Mutex
	pending map[string]*pendingUpload
}

// pendingUpload is one registration; a reused id gets a new one, so a finished
// upload only unregisters itself.
type pendingUpload struct {
	cancel context.CancelCauseFunc
}

func newUploads() *uploads {
	return &uploads{pending: map[string]*pendingUpload{}}
}

// begin registers id (or a fresh one when empty) and returns a context that
// Cancel(id) aborts. done must be called when the upload finishes.
func (u *uploads) begin(ctx context.Context, id string) (string, context.Context, func()) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()
	}
	uploadCtx, cancel := context.WithCancelCause(ctx)

	u.mu.Lock()
	if prev, ok := u.pending[id]; ok {
		prev.cancel(errUploadReplaced)
	}
	entry := &pendingUpload{cancel: cancel}
	u.pending[id] = entry
	u.mu.Unlock()

	done := func() {
		u.mu.Lock()
		if u.pending[id] == entry {
			delete(u.pending, id)
		}
		u.mu.Unlock()
		cancel(nil)
	}
	return id, uploadCtx, done
}

// cancel aborts the upload registered under id and reports whether one was
// running.
func (u *uploads) cancel(id string) bool {
	u.mu.Lock()
	entry, ok := u.pending[strings.TrimSpace(id)]
	u.mu.Unlock()
	if ok {
		entry.cancel(errUploadCancelled)
	}
	return ok
}
