package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/hearth-storefront/api/responses"
	pkgAuth "github.com/angelmondragon/hearth-storefront/pkg/auth"
	"github.com/angelmondragon/hearth-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
)

// Session identifies the browser through a signed cookie. Requests without a
// valid cookie are issued a fresh session.
func Session(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sessionID := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil && strings.TrimSpace(cookie.Value) != "" {
				claims, err := pkgAuth.ParseSessionToken(cfg, cookie.Value)
				if err == nil {
					sessionID = claims.SessionID()
				} else if logg != nil {
					logg.Warn(logg.WithField(ctx, "reason", err.Error()), "session.cookie_rejected")
				}
			}

			if sessionID == "" {
				now := time.Now()
				token, sid, err := pkgAuth.MintSessionToken(cfg, now, "")
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session"))
					return
				}
				sessionID = sid
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					Expires:  now.Add(cfg.TTL),
					HttpOnly: true,
					Secure:   cfg.SecureCookie,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx = WithSessionID(ctx, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
