package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/asinan007/tripping/internal/trip/ai"
	"github.com/asinan007/tripping/pkg/httpx"
	"github.com/asinan007/tripping/pkg/jwtx"
)

// ErrMissingSecret is returned when JWT_SECRET is unset outside dev.
var ErrMissingSecret = errors.New("JWT_SECRET is required outside the dev environment")

type Config struct {
	Env       string `env:"ENV"        envDefault:"dev"`  // Environment (dev, staging, prod)
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"` // debug, info, warn, error
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // json, text
	Port      int    `env:"PORT"       envDefault:"8080"`

	DatabaseFile string `env:"TRIP_DATABASE_FILE" envDefault:"tripping.db"`

	// JWTSecret signs session tokens. In dev an empty secret is replaced by a
	// random one, so sessions do not survive a restart.
	JWTSecret  string        `env:"JWT_SECRET"`
	Issuer     string        `env:"JWT_ISSUER"  envDefault:"tripping"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// GeminiAPIKey enables suggestions. Without it every suggestion is empty.
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	GeminiModel   string        `env:"GEMINI_MODEL"    envDefault:"gemini-2.0-flash"`
	GeminiBaseURL string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	AITimeout     time.Duration `env:"AI_TIMEOUT"      envDefault:"15s"`
	EnrichTimeout time.Duration `env:"ENRICH_TIMEOUT"  envDefault:"10s"`

	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	WSWriteTimeout time.Duration `env:"WS_WRITE_TIMEOUT"     envDefault:"5s"`

	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	RateLimits httpx.RateLimits `envPrefix:"RATELIMIT_"`
}

// LoadConfig reads the configuration from the environment. Rate limit
// profiles start from the built-in defaults and only the variables present
// override them.
func LoadConfig() (Config, error) {
	cfg := Config{RateLimits: httpx.DefaultRateLimits()}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.JWTSecret == "" && !c.IsDev() {
		return ErrMissingSecret
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < jwtx.MinSecretLen {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", jwtx.MinSecretLen)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.AITimeout <= 0 || c.EnrichTimeout <= 0 || c.WSWriteTimeout <= 0 {
		return errors.New("AI_TIMEOUT, ENRICH_TIMEOUT and WS_WRITE_TIMEOUT must be positive")
	}
	if c.HousekeepingInterval <= 0 {
		return errors.New("HOUSEKEEPING_INTERVAL must be positive")
	}
	if err := c.RateLimits.Validate(); err != nil {
		return fmt.Errorf("rate limits: %w", err)
	}
	return nil
}

// IsDev reports whether the service runs in the dev environment.
func (c Config) IsDev() bool {
	return strings.EqualFold(c.Env, "dev")
}

// SuggestionsEnabled reports whether a Gemini key is configured.
func (c Config) SuggestionsEnabled() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

func (c Config) geminiConfig() ai.GeminiConfig {
	return ai.GeminiConfig{
		APIKey:  strings.TrimSpace(c.GeminiAPIKey),
		Model:   c.GeminiModel,
		BaseURL: c.GeminiBaseURL,
		Timeout: c.AITimeout,
	}
}
