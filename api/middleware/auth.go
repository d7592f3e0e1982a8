package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/hearth-storefront/api/responses"
	"github.com/angelmondragon/hearth-storefront/internal/auth"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
)

type authResolver interface {
	Resolve(ctx context.Context, sessionID string) (auth.State, error)
}

// RequireAuth lets a request through only when the session holds a token.
// Unauthenticated sessions get a 401 carrying the login redirect.
func RequireAuth(guard authResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			state, err := guard.Resolve(ctx, SessionIDFromContext(ctx))
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if state.IsLoadingAuth {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "authentication state unavailable"))
				return
			}
			if redirect := auth.LoginRedirect(state, r.URL.Path); redirect != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Please log in to continue.").WithDetails(redirect))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAuthState(ctx, state)))
		})
	}
}
