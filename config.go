package qnty

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds solver and tooling settings, read from the environment.
type Config struct {
	MaxIterations     int     `env:"QNTY_MAX_ITERATIONS" envDefault:"100"`
	ResidualTolerance float64 `env:"QNTY_RESIDUAL_TOLERANCE" envDefault:"1e-9"`
	LogVerbosity      int     `env:"QNTY_LOG_VERBOSITY" envDefault:"0"`
	Locale            string  `env:"QNTY_LOCALE" envDefault:"en"`
}

// DefaultConfig returns the settings LoadConfig yields on an empty environment.
func DefaultConfig() Config {
	return Config{
		MaxIterations:     100,
		ResidualTolerance: 1e-9,
		Locale:            "en",
	}
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MaxIterations <= 0 {
		return Config{}, fmt.Errorf("QNTY_MAX_ITERATIONS must be positive, got %d", cfg.MaxIterations)
	}
	if cfg.ResidualTolerance <= 0 {
		return Config{}, fmt.Errorf("QNTY_RESIDUAL_TOLERANCE must be positive, got %g", cfg.ResidualTolerance)
	}
	return cfg, nil
}
