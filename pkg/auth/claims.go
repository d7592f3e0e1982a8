package auth

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the payload of the browser session cookie. The session id
// travels in the registered jti claim.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionID returns the browser session identifier.
func (c SessionClaims) SessionID() string {
	return c.ID
}
