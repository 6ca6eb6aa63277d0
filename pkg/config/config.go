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
	HTTP         HTTPConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CONFIGURATOR_APP_ENV" required:"true"`
	Port         string `envconfig:"CONFIGURATOR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CONFIGURATOR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CONFIGURATOR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// HTTPConfig tunes the API server and the browser origins allowed to call it.
type HTTPConfig struct {
	CORSOrigins       []string      `envconfig:"CONFIGURATOR_CORS_ORIGINS" default:"http://localhost:3000"`
	ReadHeaderTimeout time.Duration `envconfig:"CONFIGURATOR_HTTP_READ_HEADER_TIMEOUT" default:"5s"`
	WriteTimeout      time.Duration `envconfig:"CONFIGURATOR_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout   time.Duration `envconfig:"CONFIGURATOR_HTTP_SHUTDOWN_TIMEOUT" default:"15s"`
	MaxBodyBytes      int64         `envconfig:"CONFIGURATOR_HTTP_MAX_BODY_BYTES" default:"1048576"`
}

type DBConfig struct {
	DSN    string `envconfig:"CONFIGURATOR_DB_DSN"`
	Driver string `envconfig:"CONFIGURATOR_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"CONFIGURATOR_DB_HOST"`
	Port     int    `envconfig:"CONFIGURATOR_DB_PORT" default:"5432"`
	User     string `envconfig:"CONFIGURATOR_DB_USER"`
	Password string `envconfig:"CONFIGURATOR_DB_PASSWORD"`
	Name     string `envconfig:"CONFIGURATOR_DB_NAME"`
	SSLMode  string `envconfig:"CONFIGURATOR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CONFIGURATOR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CONFIGURATOR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CONFIGURATOR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CONFIGURATOR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the client should open the embedded sqlite driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"CONFIGURATOR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CONFIGURATOR_REDIS_ADDR"`
	Password     string        `envconfig:"CONFIGURATOR_REDIS_PASSWORD"`
	DB           int           `envconfig:"CONFIGURATOR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CONFIGURATOR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CONFIGURATOR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CONFIGURATOR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CONFIGURATOR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CONFIGURATOR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig controls how long an unsubmitted product edit session survives.
type SessionConfig struct {
	TTL time.Duration `envconfig:"CONFIGURATOR_SESSION_TTL" default:"2h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CONFIGURATOR_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CONFIGURATOR_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DBDriverSQLite
		if db.DSN == "" {
			db.DSN = DefaultSQLiteDSN
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range splitDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
