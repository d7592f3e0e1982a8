package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Backend      BackendConfig
	State        StateConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	Checkout     CheckoutConfig
	Account      AccountConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	Workspace    WorkspaceConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.State.validate(); err != nil {
		return nil, err
	}
	if cfg.State.Driver == StateDriverSQL && !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if cfg.State.Driver == StateDriverRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("%s or %s is required for the redis state driver", EnvRedisURL, EnvRedisAddr)
	}
	if cfg.Checkout.SubmitTimeout <= 0 {
		return nil, fmt.Errorf("%s must be positive", EnvSubmitWindow)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HEARTH_APP_ENV" required:"true"`
	Port         string `envconfig:"HEARTH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HEARTH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HEARTH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points at the hotel API and the chatbot service.
type BackendConfig struct {
	BaseURL        string        `envconfig:"HEARTH_BACKEND_BASE_URL" required:"true"`
	Timeout        time.Duration `envconfig:"HEARTH_BACKEND_TIMEOUT" default:"15s"`
	ChatbotURL     string        `envconfig:"HEARTH_CHATBOT_BASE_URL"`
	WhatsAppNumber string        `envconfig:"HEARTH_WHATSAPP_NUMBER" default:"+254113368527"`
}

// StateConfig selects where per-session browser state (cart, token) lives.
type StateConfig struct {
	Driver string        `envconfig:"HEARTH_STATE_DRIVER" default:"redis"`
	TTL    time.Duration `envconfig:"HEARTH_STATE_TTL" default:"720h"`
}

func (s *StateConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	switch s.Driver {
	case StateDriverRedis, StateDriverSQL, StateDriverMemory:
		return nil
	default:
		return fmt.Errorf("unsupported %s %q", EnvStateDriver, s.Driver)
	}
}

type DBConfig struct {
	DSN    string `envconfig:"HEARTH_DB_DSN"`
	Driver string `envconfig:"HEARTH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HEARTH_DB_HOST"`
	LegacyPort     int    `envconfig:"HEARTH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HEARTH_DB_USER"`
	LegacyPassword string `envconfig:"HEARTH_DB_PASSWORD"`
	LegacyName     string `envconfig:"HEARTH_DB_NAME"`
	LegacySSLMode  string `envconfig:"HEARTH_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"HEARTH_SQLITE_PATH" default:"hearth.db"`

	MaxOpenConns    int           `envconfig:"HEARTH_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"HEARTH_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"HEARTH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HEARTH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HEARTH_REDIS_URL"`
	Address      string        `envconfig:"HEARTH_REDIS_ADDR"`
	Password     string        `envconfig:"HEARTH_REDIS_PASSWORD"`
	DB           int           `envconfig:"HEARTH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HEARTH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HEARTH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HEARTH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HEARTH_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"HEARTH_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// SessionConfig controls the signed cookie that identifies a browser session.
type SessionConfig struct {
	CookieName   string        `envconfig:"HEARTH_SESSION_COOKIE" default:"hearth_session"`
	Secret       string        `envconfig:"HEARTH_SESSION_SECRET" required:"true"`
	Issuer       string        `envconfig:"HEARTH_SESSION_ISSUER" default:"hearth-storefront"`
	TTL          time.Duration `envconfig:"HEARTH_SESSION_TTL" default:"720h"`
	SecureCookie bool          `envconfig:"HEARTH_SESSION_SECURE_COOKIE" default:"true"`
}

type CheckoutConfig struct {
	SubmitTimeout time.Duration `envconfig:"HEARTH_CHECKOUT_SUBMIT_TIMEOUT" default:"20s"`
	SuccessDelay  time.Duration `envconfig:"HEARTH_CHECKOUT_SUCCESS_DELAY" default:"2s"`
	Location      string        `envconfig:"HEARTH_CHECKOUT_LOCATION" default:"Africa/Nairobi"`
}

// LoadLocation resolves the calendar used for date-only booking ranges.
func (c CheckoutConfig) LoadLocation() (*time.Location, error) {
	name := strings.TrimSpace(c.Location)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading checkout location %q: %w", name, err)
	}
	return loc, nil
}

type AccountConfig struct {
	VerifyRedirectDelay time.Duration `envconfig:"HEARTH_ACCOUNT_VERIFY_REDIRECT_DELAY" default:"4s"`
}

type RateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"HEARTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"HEARTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"HEARTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"HEARTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"HEARTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"HEARTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	ContactWindow      time.Duration `envconfig:"HEARTH_RATE_LIMIT_CONTACT_WINDOW" default:"10m"`
	ContactEmailLimit  int           `envconfig:"HEARTH_RATE_LIMIT_CONTACT_EMAIL_LIMIT" default:"3"`
	ContactIPLimit     int           `envconfig:"HEARTH_RATE_LIMIT_CONTACT_IP_LIMIT" default:"10"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"HEARTH_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

// WorkspaceConfig bounds how long idle per-session checkout state stays in memory.
type WorkspaceConfig struct {
	IdleTTL       time.Duration `envconfig:"HEARTH_WORKSPACE_IDLE_TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"HEARTH_WORKSPACE_SWEEP_INTERVAL" default:"1m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"HEARTH_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"HEARTH_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
