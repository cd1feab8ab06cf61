package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/esnunes/promptsmith/internal/paths"
)

// Backend names accepted in PROMPTSMITH_BACKEND.
const (
	BackendAnthropic = "anthropic"
	BackendOpenAI    = "openai"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Backend string

	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	Language     string // target locale of optimized prompts
	ProbeTimeout time.Duration

	DBPath   string
	LogLevel string
	LogFile  string
	HTTPAddr string
}

// Load reads .env (if present) and the environment. Variables already set in
// the environment win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Backend:          strings.ToLower(getEnv("PROMPTSMITH_BACKEND", BackendAnthropic)),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
		AnthropicBaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "http://localhost:11434/v1"),
		OpenAIModel:      getEnv("OPENAI_MODEL", "llama3.1"),
		Language:         getEnv("PROMPTSMITH_LANGUAGE", "Simplified Chinese"),
		DBPath:           os.Getenv("PROMPTSMITH_DB"),
		LogLevel:         getEnv("PROMPTSMITH_LOG_LEVEL", "info"),
		LogFile:          os.Getenv("PROMPTSMITH_LOG_FILE"),
		HTTPAddr:         os.Getenv("PROMPTSMITH_HTTP_ADDR"),
	}

	timeout, err := time.ParseDuration(getEnv("PROMPTSMITH_PROBE_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("parsing PROMPTSMITH_PROBE_TIMEOUT: %w", err)
	}
	cfg.ProbeTimeout = timeout

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAnthropic, BackendOpenAI:
	default:
		return fmt.Errorf("unknown PROMPTSMITH_BACKEND %q (supported: %s, %s)", c.Backend, BackendAnthropic, BackendOpenAI)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be positive, got %s", c.ProbeTimeout)
	}
	return nil
}

// LogPath returns where log lines go: the configured file, or
// promptsmith.log in the state directory.
func (c *Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	dir, err := paths.StateDir()
	if err != nil {
		return "", fmt.Errorf("getting state directory: %w", err)
	}
	if _, err := paths.Ensure(dir); err != nil {
		return "", fmt.Errorf("creating state directory: %w", err)
	}
	return filepath.Join(dir, "promptsmith.log"), nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
