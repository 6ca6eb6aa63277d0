package config

// EnvPrefix is handed to envconfig; every field also carries its full variable name.
const EnvPrefix = "CONFIGURATOR"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	DefaultSQLiteDSN = "file:configurator.db?cache=shared"
)

const (
	EnvAppEnv       = "CONFIGURATOR_APP_ENV"
	EnvPort         = "CONFIGURATOR_APP_PORT"
	EnvLogLevel     = "CONFIGURATOR_LOG_LEVEL"
	EnvLogWarnStack = "CONFIGURATOR_LOG_WARN_STACK"

	EnvCORSOrigins     = "CONFIGURATOR_CORS_ORIGINS"
	EnvShutdownTimeout = "CONFIGURATOR_HTTP_SHUTDOWN_TIMEOUT"

	EnvDBDSN      = "CONFIGURATOR_DB_DSN"
	EnvDBDriver   = "CONFIGURATOR_DB_DRIVER"
	EnvDBHost     = "CONFIGURATOR_DB_HOST"
	EnvDBPort     = "CONFIGURATOR_DB_PORT"
	EnvDBUser     = "CONFIGURATOR_DB_USER"
	EnvDBPassword = "CONFIGURATOR_DB_PASSWORD"
	EnvDBName     = "CONFIGURATOR_DB_NAME"
	EnvDBSSLMode  = "CONFIGURATOR_DB_SSLMODE"

	EnvRedisURL = "CONFIGURATOR_REDIS_URL"

	EnvSessionTTL = "CONFIGURATOR_SESSION_TTL"

	EnvUseSQLite   = "CONFIGURATOR_USE_SQLITE"
	EnvAutoMigrate = "CONFIGURATOR_AUTO_MIGRATE"
)

var splitDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
