package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/hearth-storefront/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret: "secret",
		Issuer: "hearth-storefront",
		TTL:    time.Hour,
	}
}

func TestMintAndParseSessionToken(t *testing.T) {
	cfg := testSessionConfig()
	now := time.Now().UTC()

	token, sid, err := MintSessionToken(cfg, now, "")
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}
	if sid == "" {
		t.Fatalf("expected generated session id")
	}

	claims, err := ParseSessionToken(cfg, token)
	if err != nil {
		t.Fatalf("parse session token: %v", err)
	}
	if claims.SessionID() != sid {
		t.Fatalf("expected session id %s, got %s", sid, claims.SessionID())
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %s", claims.Issuer)
	}
	if got := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("unexpected lifetime %v", got)
	}
}

func TestMintSessionTokenKeepsProvidedID(t *testing.T) {
	_, sid, err := MintSessionToken(testSessionConfig(), time.Now(), " sess-42 ")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if sid != "sess-42" {
		t.Fatalf("expected trimmed id, got %q", sid)
	}
}

func TestMintSessionTokenValidatesConfig(t *testing.T) {
	cases := []config.SessionConfig{
		{Issuer: "x", TTL: time.Hour},
		{Secret: "x", TTL: time.Hour},
		{Secret: "x", Issuer: "x"},
	}
	for _, cfg := range cases {
		if _, _, err := MintSessionToken(cfg, time.Now(), ""); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestParseSessionTokenRejectsTampering(t *testing.T) {
	cfg := testSessionConfig()
	token, _, err := MintSessionToken(cfg, time.Now(), "")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseSessionToken(other, token); err == nil {
		t.Fatalf("expected signature mismatch")
	}

	wrongIssuer := cfg
	wrongIssuer.Issuer = "someone-else"
	if _, err := ParseSessionToken(wrongIssuer, token); err == nil {
		t.Fatalf("expected issuer mismatch")
	}

	expired, _, err := MintSessionToken(cfg, time.Now().Add(-2*time.Hour), "")
	if err != nil {
		t.Fatalf("mint expired: %v", err)
	}
	if _, err := ParseSessionToken(cfg, expired); err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestBearerTokenExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	if !BearerTokenExpired(sign(jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}), now) {
		t.Fatalf("expected past exp to be expired")
	}
	if BearerTokenExpired(sign(jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}), now) {
		t.Fatalf("future exp should not be expired")
	}
	if BearerTokenExpired(sign(jwt.MapClaims{"id": "u1"}), now) {
		t.Fatalf("missing exp should not be expired")
	}
	if BearerTokenExpired("opaque-token", now) {
		t.Fatalf("opaque tokens are never expired locally")
	}
}
