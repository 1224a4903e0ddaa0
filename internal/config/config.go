package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/tatianab/memory-bomb/internal/engine"
	"gopkg.in/yaml.v3"
)

// Leaderboard backends.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	SaveDir     string `env:"MEMORYBOMB_SAVE_DIR" envDefault:".saves"`
	Leaderboard string `env:"MEMORYBOMB_LEADERBOARD" envDefault:"yaml"`
	TuningFile  string `env:"MEMORYBOMB_TUNING"`
	PlayerName  string `env:"MEMORYBOMB_PLAYER" envDefault:"Player"`
	Audio       bool   `env:"MEMORYBOMB_AUDIO" envDefault:"true"`
	LogFile     string `env:"MEMORYBOMB_LOG_FILE" envDefault:"debug.log"`
	Addr        string `env:"MEMORYBOMB_ADDR" envDefault:":8080"`

	// Only the Gemini player needs a key.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Leaderboard != BackendYAML && cfg.Leaderboard != BackendSQLite {
		return nil, fmt.Errorf("MEMORYBOMB_LEADERBOARD must be %q or %q, got %q", BackendYAML, BackendSQLite, cfg.Leaderboard)
	}
	return &cfg, nil
}

// Tuning returns the engine tuning, read from TuningFile when one is set.
func (c *Config) Tuning() (engine.Tuning, error) {
	return LoadTuning(c.TuningFile)
}

// LoadTuning overlays the YAML file at path on the default tuning and validates
// the result. An empty path yields the defaults.
func LoadTuning(path string) (engine.Tuning, error) {
	tuning := engine.DefaultTuning()
	if path == "" {
		return tuning, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Tuning{}, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return engine.Tuning{}, fmt.Errorf("parse tuning %s: %w", path, err)
	}
	if err := tuning.Validate(); err != nil {
		return engine.Tuning{}, fmt.Errorf("tuning %s: %w", path, err)
	}
	return tuning, nil
}

// RequireGeminiKey reports a helpful error when the Gemini key is missing.
func (c *Config) RequireGeminiKey() error {
	if c.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY environment variable is not set")
	}
	return nil
}
