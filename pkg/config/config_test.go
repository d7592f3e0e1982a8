package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "prod" {
		t.Fatalf("expected App.Env to be prod, got %q", cfg.App.Env)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}
	if cfg.State.Driver != StateDriverRedis {
		t.Fatalf("expected redis state driver by default, got %q", cfg.State.Driver)
	}
	if got := cfg.Checkout.SuccessDelay; got != 2*time.Second {
		t.Fatalf("expected success delay 2s, got %v", got)
	}
	if got := cfg.Account.VerifyRedirectDelay; got != 4*time.Second {
		t.Fatalf("expected verify redirect delay 4s, got %v", got)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("expected default cors origins, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RejectsUnknownStateDriver(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStateDriver, "etcd")
	if _, err := Load(); err == nil {
		t.Fatal("expected unknown state driver to fail")
	}
}

func TestLoad_RedisDriverNeedsAddress(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvRedisURL); err != nil {
		t.Fatalf("unset: %v", err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected redis driver without address to fail")
	}
}

func TestLoad_SQLDriverBuildsLegacyDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStateDriver, "SQL")
	t.Setenv(EnvDBHost, "db.internal")
	t.Setenv(EnvDBUser, "hearth")
	t.Setenv("HEARTH_DB_PASSWORD", "pw")
	t.Setenv(EnvDBName, "storefront")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	want := "postgres://hearth:pw@db.internal:5432/storefront?sslmode=disable"
	if cfg.DB.DSN != want {
		t.Fatalf("expected dsn %q, got %q", want, cfg.DB.DSN)
	}
}

func TestLoad_SQLDriverMissingDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStateDriver, StateDriverSQL)
	if _, err := Load(); err == nil {
		t.Fatal("expected missing dsn to fail")
	}
	t.Setenv(EnvUseSQLite, "true")
	if _, err := Load(); err != nil {
		t.Fatalf("sqlite flag should bypass dsn requirement: %v", err)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvPort, "8080")
	t.Setenv(EnvBackendURL, "https://api.hearth.test")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvSessionKey, "secret")
	t.Setenv(EnvStateDriver, StateDriverRedis)
	t.Setenv(EnvUseSQLite, "false")
	t.Setenv(EnvDBDSN, "")
	t.Setenv(EnvDBHost, "")
	t.Setenv(EnvDBUser, "")
	t.Setenv(EnvDBName, "")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}

func TestCheckoutLocation(t *testing.T) {
	loc, err := CheckoutConfig{}.LoadLocation()
	if err != nil || loc != time.UTC {
		t.Fatalf("expected UTC default, got %v %v", loc, err)
	}
	if _, err := (CheckoutConfig{Location: "Not/AZone"}).LoadLocation(); err == nil {
		t.Fatalf("expected unknown zone to fail")
	}
}
