// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	GroqAPIKey  string `env:"GROQ_API_KEY"`
	GroqBaseURL string `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai"`
	GroqModel   string `env:"GROQ_MODEL" envDefault:"llama3-70b-8192"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/chatbot.duckdb"`
	AuditDBPath  string `env:"AUDIT_DB_PATH" envDefault:"./data/audit"`

	MaxResultRows     int           `env:"MAX_RESULT_ROWS" envDefault:"200"`
	QueryTimeout      time.Duration `env:"QUERY_TIMEOUT" envDefault:"15s"`
	GenerationTimeout time.Duration `env:"GENERATION_TIMEOUT" envDefault:"30s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration. A missing .env file is not an error; the
// environment always wins over file values.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.MaxResultRows <= 0 {
		return Config{}, fmt.Errorf("MAX_RESULT_ROWS must be positive, got %d", cfg.MaxResultRows)
	}
	return cfg, nil
}
