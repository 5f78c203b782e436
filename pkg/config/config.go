package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	BookingEngine BookingEngineConfig
	SyncQueue     SyncQueueConfig
	SyncWorker    SyncWorkerConfig
	RateLimit     RateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RENTABLE_APP_ENV" required:"true"`
	Port         string `envconfig:"RENTABLE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RENTABLE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RENTABLE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"RENTABLE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"RENTABLE_DB_DSN"`
	Driver string `envconfig:"RENTABLE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RENTABLE_DB_HOST"`
	LegacyPort     int    `envconfig:"RENTABLE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RENTABLE_DB_USER"`
	LegacyPassword string `envconfig:"RENTABLE_DB_PASSWORD"`
	LegacyName     string `envconfig:"RENTABLE_DB_NAME"`
	LegacySSLMode  string `envconfig:"RENTABLE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RENTABLE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RENTABLE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RENTABLE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RENTABLE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RENTABLE_REDIS_URL"`
	Address      string        `envconfig:"RENTABLE_REDIS_ADDR"`
	Password     string        `envconfig:"RENTABLE_REDIS_PASSWORD"`
	DB           int           `envconfig:"RENTABLE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RENTABLE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RENTABLE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RENTABLE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RENTABLE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RENTABLE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// BookingEngineConfig configures the remote booking-engine API. An empty
// APIKey disables synchronization entirely: projector calls become no-op
// successes while local writes continue to succeed.
type BookingEngineConfig struct {
	BaseURL        string        `envconfig:"RENTABLE_BOOKING_ENGINE_URL"`
	APIKey         string        `envconfig:"RENTABLE_BOOKING_ENGINE_API_KEY"`
	AdminAPIKey    string        `envconfig:"RENTABLE_BOOKING_ENGINE_ADMIN_API_KEY"`
	RequestTimeout time.Duration `envconfig:"RENTABLE_BOOKING_ENGINE_TIMEOUT" default:"15s"`
}

// Enabled reports whether remote sync is configured.
func (b BookingEngineConfig) Enabled() bool {
	return strings.TrimSpace(b.APIKey) != ""
}

type SyncQueueConfig struct {
	Workers  int `envconfig:"RENTABLE_SYNC_QUEUE_WORKERS" default:"2"`
	Capacity int `envconfig:"RENTABLE_SYNC_QUEUE_CAPACITY" default:"256"`
}

// SyncWorkerConfig drives the background sweep cadence. The lock TTL should
// exceed the interval so a crashed worker cannot leave the lock held forever
// while another instance waits.
type SyncWorkerConfig struct {
	Interval time.Duration `envconfig:"RENTABLE_SYNC_WORKER_INTERVAL" default:"15m"`
	LockTTL  time.Duration `envconfig:"RENTABLE_SYNC_WORKER_LOCK_TTL" default:"20m"`
}

type RateLimitConfig struct {
	AvailabilityWindow  time.Duration `envconfig:"RENTABLE_RATE_LIMIT_AVAILABILITY_WINDOW" default:"1m"`
	AvailabilityIPLimit int           `envconfig:"RENTABLE_RATE_LIMIT_AVAILABILITY_IP_LIMIT" default:"120"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RENTABLE_AUTO_MIGRATE" default:"false"`
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
