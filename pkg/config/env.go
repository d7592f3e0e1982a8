package config

const (
	EnvPrefix = "HEARTH"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv       = "HEARTH_APP_ENV"
	EnvPort         = "HEARTH_APP_PORT"
	EnvLogLevel     = "HEARTH_LOG_LEVEL"
	EnvBackendURL   = "HEARTH_BACKEND_BASE_URL"
	EnvChatbotURL   = "HEARTH_CHATBOT_BASE_URL"
	EnvStateDriver  = "HEARTH_STATE_DRIVER"
	EnvDBDSN        = "HEARTH_DB_DSN"
	EnvDBHost       = "HEARTH_DB_HOST"
	EnvDBUser       = "HEARTH_DB_USER"
	EnvDBName       = "HEARTH_DB_NAME"
	EnvRedisURL     = "HEARTH_REDIS_URL"
	EnvRedisAddr    = "HEARTH_REDIS_ADDR"
	EnvSessionKey   = "HEARTH_SESSION_SECRET"
	EnvSessionIss   = "HEARTH_SESSION_ISSUER"
	EnvSubmitWindow = "HEARTH_CHECKOUT_SUBMIT_TIMEOUT"
	EnvUseSQLite    = "HEARTH_USE_SQLITE"
	EnvCORSOrigins  = "HEARTH_CORS_ALLOWED_ORIGINS"
)

const (
	StateDriverRedis  = "redis"
	StateDriverSQL    = "sql"
	StateDriverMemory = "memory"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
