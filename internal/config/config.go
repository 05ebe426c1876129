// internal/config/config.go
//
// Process configuration. A .env file in the working directory is loaded
// first (if present), then the environment is parsed into Config.

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// DevSecret signs session cookies when SESSION_SECRET is unset.
const DevSecret = "dev_secret_change_me"

// Config is the typed view of the environment.
type Config struct {
	Port         string `env:"PORT" envDefault:"5175"`
	Host         string `env:"HOST" envDefault:"127.0.0.1"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	DBPath       string `env:"DB_PATH" envDefault:"./data/manasvi.db"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	// Base URL override for the generative API (proxies, tests).
	GeminiBaseURL string `env:"GEMINI_BASE_URL"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"dev_secret_change_me"`
	SessionDays   int    `env:"SESSION_EXPIRES_DAYS" envDefault:"14"`
	CookieName    string `env:"COOKIE_NAME" envDefault:"manasvi_session"`
	ClientOrigin  string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	TTSCommand    string `env:"TTS_COMMAND"`
	TTSVoice      string `env:"TTS_VOICE"`
	PhrasesFile   string `env:"PHRASES_FILE"`
	DailySalt     string `env:"DAILY_SALT" envDefault:"manasvi"`
	Production    bool   `env:"PRODUCTION"`
}

// Load reads .env (missing file is fine) and parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// Addr is the listen address.
func (c *Config) Addr() string { return c.Host + ":" + c.Port }

// Level parses LogLevel, falling back to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// ApplyLogLevel sets the global zerolog level.
func (c *Config) ApplyLogLevel() { zerolog.SetGlobalLevel(c.Level()) }

// UsingDevSecret reports whether cookies are signed with the built-in secret.
func (c *Config) UsingDevSecret() bool { return c.SessionSecret == DevSecret }
