package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env      string `env:"APP_ENV" env-default:"local"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	Port         int    `env:"PORT" env-default:"3318"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseType string `env:"DATABASE_TYPE" env-default:"sqlite"`

	IPHashSalt   string `env:"IP_HASH_SALT" env-default:"boardtime"`
	PasswordCost int    `env:"PASSWORD_COST" env-default:"10"`
	Timezone     string `env:"TIMEZONE" env-default:"UTC"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`

	// Optional infrastructure. Empty values disable the component.
	RedisAddr    string   `env:"REDIS_ADDR"`
	RateLimit    int      `env:"RATE_LIMIT_PER_MINUTE" env-default:"30"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" env-separator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" env-default:"boardtime.events"`
	OTLPEndpoint string   `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string   `env:"OTEL_SERVICE_NAME" env-default:"boardtime"`
}

// Location returns the zone used for timestamps that carry no offset.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseFlags loads .env, reads the environment, then applies flag overrides
func ParseFlags(args []string) (Config, error) {
	var (
		cfg     Config
		port    int
		dbURL   string
		dbType  string
		envFile string
	)

	fs := flag.NewFlagSet("boardtime", flag.ContinueOnError)

	fs.IntVar(&port, "p", 0, "Server port")
	fs.StringVar(&dbURL, "d", "", "Database URL")
	fs.StringVar(&dbType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&envFile, "env-file", "", "Path to a .env file (default: ./.env if present)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadDotEnv(envFile); err != nil {
		return Config{}, err
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}

	// CLI overrides env
	if port != 0 {
		cfg.Port = port
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if dbType != "" {
		cfg.DatabaseType = dbType
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if c.DatabaseType != "sqlite" && c.DatabaseType != "postgres" {
		return fmt.Errorf("unsupported database type %q (sqlite or postgres)", c.DatabaseType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	if c.RateLimit < 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	return nil
}

// loadDotEnv never overrides variables already present in the environment.
// A missing default .env is fine; a missing explicit file is not.
func loadDotEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}
	return nil
}
