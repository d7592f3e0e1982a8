package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/hearth-storefront/api/middleware"
	"github.com/angelmondragon/hearth-storefront/api/responses"
	"github.com/angelmondragon/hearth-storefront/api/validators"
	"github.com/angelmondragon/hearth-storefront/internal/auth"
	"github.com/angelmondragon/hearth-storefront/pkg/backend"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
)

const (
	msgLoggedIn  = "Login successful."
	msgLoggedOut = "You have been logged out."
)

// AuthService signs browser sessions in and out of the hotel API.
type AuthService interface {
	Resolve(ctx context.Context, sessionID string) (auth.State, error)
	Login(ctx context.Context, sessionID, email, password string) (*backend.LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// From is the page the guard bounced the guest away from.
	From string `json:"from"`
}

type messageResponse struct {
	Message  string          `json:"message"`
	Redirect *types.Redirect `json:"redirect,omitempty"`
}

// safeReturnPath only allows same-site relative paths.
func safeReturnPath(from string) string {
	from = strings.TrimSpace(from)
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || from == "/login" {
		return "/"
	}
	return from
}

func AuthLogin(svc AuthService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Login(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		message := result.Message
		if message == "" {
			message = msgLoggedIn
		}
		responses.WriteSuccess(w, messageResponse{
			Message:  message,
			Redirect: &types.Redirect{To: safeReturnPath(payload.From)},
		})
	}
}

func AuthLogout(svc AuthService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}
		if err := svc.Logout(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, messageResponse{Message: msgLoggedOut})
	}
}

// AuthMe reports the session's auth state without exposing the token.
func AuthMe(svc AuthService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}
		state, err := svc.Resolve(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}
