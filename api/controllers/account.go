package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/hearth-storefront/api/responses"
	"github.com/angelmondragon/hearth-storefront/api/validators"
	"github.com/angelmondragon/hearth-storefront/internal/account"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
)

// AccountService runs guest sign-up.
type AccountService interface {
	Register(ctx context.Context, in account.RegisterInput) (*account.Result, error)
	VerifyEmail(ctx context.Context, token string) (*account.Result, error)
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

// AccountRegister leaves field validation to the account service so the
// form's own messages reach the guest.
func AccountRegister(svc AccountService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}
		var payload account.RegisterInput
		if err := validators.DecodeJSON(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Register(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AccountVerifyEmail accepts the token in the body or, as in the e-mailed
// link, the query string.
func AccountVerifyEmail(svc AccountService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}
		var payload verifyEmailRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSON(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if payload.Token == "" {
			payload.Token = r.URL.Query().Get("token")
		}
		result, err := svc.VerifyEmail(r.Context(), payload.Token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
