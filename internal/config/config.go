package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App     AppConfig
	Log     LogConfig
	DB      DBConfig
	Redis   RedisConfig
	GRPC    GRPCConfig
	Premium PremiumConfig
}

type AppConfig struct {
	ENV string `env:"APP_ENV" envDefault:"production"`
}

type LogConfig struct {
	Level     string `env:"LOG_LEVEL" envDefault:"info"`
	Format    string `env:"LOG_FORMAT" envDefault:"text"`
	Component string `env:"LOG_COMPONENT" envDefault:"grpc_server"`
	Source    bool   `env:"LOG_SOURCE"`
}

type DBConfig struct {
	Driver   string `env:"DB_DRIVER" envDefault:"mysql"`
	DSN      string `env:"DB_DSN"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT"`
	User     string `env:"DB_USER" envDefault:"root"`
	Password string `env:"DB_PASSWORD" envDefault:"root"`
	Name     string `env:"DB_NAME" envDefault:"amigo"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type GRPCConfig struct {
	Host string `env:"GRPC_HOST" envDefault:"127.0.0.1"`
	Port string `env:"GRPC_PORT" envDefault:"50051"`
}

// PremiumConfig describes the single premium product a confirmed payment must match.
type PremiumConfig struct {
	Currency     string `env:"PREMIUM_CURRENCY" envDefault:"XTR"`
	Amount       int64  `env:"PREMIUM_AMOUNT" envDefault:"590"`
	Payload      string `env:"PREMIUM_PAYLOAD" envDefault:"premium_upgrade"`
	DurationDays int    `env:"PREMIUM_DURATION_DAYS" envDefault:"30"`
}

// New loads configuration from the process environment.
func New() (*Config, error) {
	return parse(env.Options{})
}

// FromMap loads configuration from the given key/value pairs instead of the process environment.
func FromMap(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	switch cfg.DB.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	if cfg.Premium.DurationDays <= 0 {
		return nil, fmt.Errorf("PREMIUM_DURATION_DAYS must be positive, got %d", cfg.Premium.DurationDays)
	}

	if strings.TrimSpace(cfg.DB.DSN) == "" {
		cfg.DB.DSN = cfg.DB.buildDSN()
	}
	return cfg, nil
}

// buildDSN assembles a driver specific DSN from the discrete DB_* settings.
func (c DBConfig) buildDSN() string {
	switch c.Driver {
	case DriverPostgres:
		port := c.Port
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			c.Host, port, c.User, c.Password, c.Name,
		)
	case DriverSQLite:
		return c.Name + ".db?_foreign_keys=on"
	default:
		port := c.Port
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			c.User, c.Password, c.Host, port, c.Name,
		)
	}
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.App.ENV, "development")
}
