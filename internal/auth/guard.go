// Package auth decides whether a browser session is signed in to the hotel
// API and manages the session's API token.
package auth

import (
	"context"
	"strings"
	"time"

	pkgAuth "github.com/angelmondragon/hearth-storefront/pkg/auth"
	"github.com/angelmondragon/hearth-storefront/pkg/backend"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/localstore"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
)

const loginPath = "/login"

// User is the signed-in guest as far as the storefront knows: the token the
// hotel API issued at login.
type User struct {
	Token string `json:"-"`
}

// State mirrors what pages check before rendering protected content.
type State struct {
	IsAuthenticated bool  `json:"is_authenticated"`
	IsLoadingAuth   bool  `json:"is_loading_auth"`
	CurrentUser     *User `json:"-"`
}

// Token returns the current user's token or "".
func (s State) Token() string {
	if s.CurrentUser == nil {
		return ""
	}
	return s.CurrentUser.Token
}

type loginClient interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResult, error)
}

// Guard resolves and mutates the auth state of browser sessions.
type Guard struct {
	storage localstore.Store
	client  loginClient
	logg    *logger.Logger
	now     func() time.Time
}

func NewGuard(storage localstore.Store, client loginClient, logg *logger.Logger) (*Guard, error) {
	if storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth storage required")
	}
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "login client required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Guard{storage: storage, client: client, logg: logg, now: time.Now}, nil
}

// Resolve reads the session token. A token the hotel API marked as expired is
// dropped. When the store cannot be read the state stays loading.
func (g *Guard) Resolve(ctx context.Context, sessionID string) (State, error) {
	scope := localstore.NewScope(g.storage, sessionID)
	token, ok, err := scope.Get(ctx, localstore.KeyToken)
	if err != nil {
		return State{IsLoadingAuth: true}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read session token")
	}
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return State{}, nil
	}
	if pkgAuth.BearerTokenExpired(token, g.now()) {
		if err := scope.Delete(ctx, localstore.KeyToken); err != nil {
			g.logg.Warn(g.logg.WithField(ctx, "error", err.Error()), "drop expired token failed")
		}
		return State{}, nil
	}
	return State{IsAuthenticated: true, CurrentUser: &User{Token: token}}, nil
}

// LoginRedirect returns where to send a guest who opened from without being
// signed in, or nil when no redirect is due.
func LoginRedirect(state State, from string) *types.Redirect {
	if state.IsLoadingAuth || state.IsAuthenticated {
		return nil
	}
	return &types.Redirect{To: loginPath, From: from}
}

// Login exchanges credentials for a hotel API token and stores it on the
// session.
func (g *Guard) Login(ctx context.Context, sessionID, email, password string) (*backend.LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	result, err := g.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	scope := localstore.NewScope(g.storage, sessionID)
	if err := scope.Set(ctx, localstore.KeyToken, result.Token); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session token")
	}
	g.logg.Info(g.logg.WithSessionID(ctx, sessionID), "session signed in")
	return result, nil
}

// Logout forgets the session token.
func (g *Guard) Logout(ctx context.Context, sessionID string) error {
	scope := localstore.NewScope(g.storage, sessionID)
	if err := scope.Delete(ctx, localstore.KeyToken); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete session token")
	}
	return nil
}
