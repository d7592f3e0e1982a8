// Package workspace keeps the live per-session objects: the hydrated cart and
// at most one open checkout.
package workspace

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/hearth-storefront/internal/cart"
	"github.com/angelmondragon/hearth-storefront/internal/checkout"
	"github.com/angelmondragon/hearth-storefront/pkg/backend"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/localstore"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
)

const defaultIdleTTL = 30 * time.Minute

type bookingSubmitter interface {
	CreateBooking(ctx context.Context, token string, payload backend.BookingRequest) (*backend.BookingResult, error)
}

// ManagerParams wires a Manager.
type ManagerParams struct {
	Storage  localstore.Store
	Bookings bookingSubmitter
	Checkout checkout.Options
	IdleTTL  time.Duration
	Logger   *logger.Logger
	Now      func() time.Time
}

// Manager owns the workspaces of every active session on this instance.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Workspace
	storage  localstore.Store
	bookings bookingSubmitter
	opts     checkout.Options
	idleTTL  time.Duration
	logg     *logger.Logger
	now      func() time.Time
}

func NewManager(params ManagerParams) (*Manager, error) {
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "browser state storage required")
	}
	if params.Bookings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "booking client required")
	}
	if params.IdleTTL <= 0 {
		params.IdleTTL = defaultIdleTTL
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.Checkout.Logger == nil {
		params.Checkout.Logger = params.Logger
	}
	return &Manager{
		sessions: map[string]*Workspace{},
		storage:  params.Storage,
		bookings: params.Bookings,
		opts:     params.Checkout,
		idleTTL:  params.IdleTTL,
		logg:     params.Logger,
		now:      params.Now,
	}, nil
}

// Get returns the workspace of sessionID, hydrating its cart on first use.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Workspace, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "browser session required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if ws, ok := m.sessions[sessionID]; ok {
		ws.touch(m.now())
		return ws, nil
	}

	store, err := cart.New(m.storage, sessionID, m.logg)
	if err != nil {
		return nil, err
	}
	store.Hydrate(ctx)
	ws := &Workspace{
		sessionID: sessionID,
		cart:      store,
		bookings:  m.bookings,
		opts:      m.opts,
		lastSeen:  m.now(),
	}
	m.sessions[sessionID] = ws
	return ws, nil
}

// Len is the number of live workspaces.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts workspaces idle for longer than the idle TTL and closes their
// checkouts. The carts stay persisted.
func (m *Manager) Sweep(ctx context.Context) int {
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	var idle []*Workspace
	for id, ws := range m.sessions {
		if ws.idleSince(cutoff) {
			idle = append(idle, ws)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, ws := range idle {
		ws.CloseCheckout()
	}
	if len(idle) > 0 {
		m.logg.Info(m.logg.WithField(ctx, "evicted", len(idle)), "idle workspaces evicted")
	}
	return len(idle)
}

// Close tears down every workspace.
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = map[string]*Workspace{}
	m.mu.Unlock()
	for _, ws := range all {
		ws.CloseCheckout()
	}
}

// Workspace is one session's cart plus its open checkout, if any.
type Workspace struct {
	mu        sync.Mutex
	sessionID string
	cart      *cart.Store
	bookings  bookingSubmitter
	opts      checkout.Options
	composer  *checkout.Composer
	lastSeen  time.Time
}

func (w *Workspace) SessionID() string {
	return w.sessionID
}

func (w *Workspace) Cart() *cart.Store {
	return w.cart
}

// OpenCheckout replaces any open checkout with a new one built from nav.
func (w *Workspace) OpenCheckout(nav checkout.Navigation) (*checkout.Composer, error) {
	composer, err := checkout.New(w.cart, w.bookings, nav, w.opts)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	prev := w.composer
	w.composer = composer
	w.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
	return composer, nil
}

// Checkout returns the open checkout.
func (w *Workspace) Checkout() (*checkout.Composer, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.composer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no checkout open")
	}
	return w.composer, nil
}

// CloseCheckout tears down the open checkout, cancelling a running booking
// submission.
func (w *Workspace) CloseCheckout() {
	w.mu.Lock()
	composer := w.composer
	w.composer = nil
	w.mu.Unlock()
	if composer != nil {
		composer.Close()
	}
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(cutoff time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen.Before(cutoff)
}
