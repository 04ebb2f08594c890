package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable read by envconfig.
	EnvPrefix = "SOUQ"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Cart     CartConfig
	Checkout CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SOUQ_APP_ENV" default:"dev"`
	Port         string `envconfig:"SOUQ_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SOUQ_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SOUQ_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"SOUQ_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"SOUQ_DB_DSN" default:"file:storefront.db"`

	MaxOpenConns    int           `envconfig:"SOUQ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SOUQ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SOUQ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SOUQ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	if strings.TrimSpace(db.DSN) == "" {
		return fmt.Errorf("database DSN is required")
	}
	return nil
}

// IsSQLite reports whether the local embedded database is in use.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"SOUQ_REDIS_URL" default:"redis://localhost:6379/0"`
	Address      string        `envconfig:"SOUQ_REDIS_ADDR"`
	Password     string        `envconfig:"SOUQ_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOUQ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOUQ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOUQ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOUQ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOUQ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOUQ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CartConfig struct {
	// SnapshotTTL bounds how long an abandoned cart survives in Redis.
	SnapshotTTL time.Duration `envconfig:"SOUQ_CART_SNAPSHOT_TTL" default:"720h"`
	Currency    string        `envconfig:"SOUQ_CART_CURRENCY" default:"AED"`
}

type CheckoutConfig struct {
	CaptureDelay               time.Duration `envconfig:"SOUQ_CHECKOUT_CAPTURE_DELAY" default:"2s"`
	ReceiptTTL                 time.Duration `envconfig:"SOUQ_CHECKOUT_RECEIPT_TTL" default:"24h"`
	ShippingFlatCents          int64         `envconfig:"SOUQ_CHECKOUT_SHIPPING_FLAT_CENTS" default:"2500"`
	FreeShippingThresholdCents int64         `envconfig:"SOUQ_CHECKOUT_FREE_SHIPPING_THRESHOLD_CENTS" default:"20000"`
}
