// Package config loads server and CLI settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/calculator"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/models"
)

// Config holds the settings read from the environment and an optional .env file.
type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	DBPath   string `env:"DB_PATH" envDefault:"./data/ledger.db"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	User User

	// SimplifyStrategy names the debt simplification strategy.
	SimplifyStrategy string `env:"SIMPLIFY_STRATEGY" envDefault:"sequential"`
	MetricsEnabled   bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

// User holds the defaults for the local user created on first start.
type User struct {
	Email           string `env:"LEDGER_USER_EMAIL" envDefault:"user@splitease.local"`
	FullName        string `env:"LEDGER_USER_NAME" envDefault:"Local User"`
	DefaultCurrency string `env:"DEFAULT_CURRENCY" envDefault:"USD"`
}

// Defaults returns the local user template for storage.UserStore.GetUser.
func (u User) Defaults() models.User {
	return models.User{Email: u.Email, FullName: u.FullName, DefaultCurrency: u.DefaultCurrency}
}

// Load reads an optional .env file, then parses the environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}
	return parse(env.Options{})
}

func parse(opts env.Options) (Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.DBPath == "" {
		return errors.New("DB_PATH must not be empty")
	}
	if c.User.Email == "" {
		return errors.New("LEDGER_USER_EMAIL must not be empty")
	}
	if _, err := calculator.StrategyByName(c.SimplifyStrategy); err != nil {
		return fmt.Errorf("invalid SIMPLIFY_STRATEGY: %w", err)
	}
	return nil
}

// Strategy resolves SimplifyStrategy. Validate guarantees it exists.
func (c Config) Strategy() calculator.Strategy {
	strategy, err := calculator.StrategyByName(c.SimplifyStrategy)
	if err != nil {
		return calculator.Sequential
	}
	return strategy
}
