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
	Store        StoreConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Cron         CronConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if _, err := cfg.Store.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ADVSHIP_APP_ENV" required:"true"`
	Port         string `envconfig:"ADVSHIP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ADVSHIP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ADVSHIP_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"ADVSHIP_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StoreConfig pins the timezone used to decide the current store date.
type StoreConfig struct {
	Timezone string `envconfig:"ADVSHIP_STORE_TIMEZONE" default:"UTC"`
}

// Location loads the configured timezone.
func (s StoreConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(s.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading store timezone %q: %w", name, err)
	}
	return loc, nil
}

type DBConfig struct {
	DSN    string `envconfig:"ADVSHIP_DB_DSN"`
	Driver string `envconfig:"ADVSHIP_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"ADVSHIP_DB_HOST"`
	Port     int    `envconfig:"ADVSHIP_DB_PORT" default:"5432"`
	User     string `envconfig:"ADVSHIP_DB_USER"`
	Password string `envconfig:"ADVSHIP_DB_PASSWORD"`
	Name     string `envconfig:"ADVSHIP_DB_NAME"`
	SSLMode  string `envconfig:"ADVSHIP_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"ADVSHIP_SQLITE_PATH" default:"advanced-shipping.db"`

	MaxOpenConns    int           `envconfig:"ADVSHIP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ADVSHIP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ADVSHIP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ADVSHIP_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"ADVSHIP_DB_SLOW_QUERY_THRESHOLD" default:"250ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ADVSHIP_REDIS_URL"`
	Address      string        `envconfig:"ADVSHIP_REDIS_ADDR"`
	Password     string        `envconfig:"ADVSHIP_REDIS_PASSWORD"`
	DB           int           `envconfig:"ADVSHIP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ADVSHIP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ADVSHIP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ADVSHIP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ADVSHIP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ADVSHIP_REDIS_WRITE_TIMEOUT" default:"5s"`
	SnapshotTTL  time.Duration `envconfig:"ADVSHIP_SETTINGS_CACHE_TTL" default:"5m"`
}

// Enabled reports whether a Redis endpoint is configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"ADVSHIP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ADVSHIP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ADVSHIP_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ADVSHIP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ADVSHIP_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Interval   time.Duration `envconfig:"ADVSHIP_CRON_INTERVAL" default:"24h"`
	LockTTL    time.Duration `envconfig:"ADVSHIP_CRON_LOCK_TTL" default:"1h"`
	JobTimeout time.Duration `envconfig:"ADVSHIP_CRON_JOB_TIMEOUT" default:"10m"`
	// MetricsAddr exposes /metrics from the worker when set, e.g. ":9091".
	MetricsAddr string `envconfig:"ADVSHIP_CRON_METRICS_ADDR"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ADVSHIP_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DBDriverSQLite
		if db.DSN == "" {
			db.DSN = db.SQLitePath
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
	for _, env := range discreteDBEnvVars {
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
