package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings of the showroom client.
type Config struct {
	APIBaseURL     string        `validate:"omitempty,url"`
	UserAgent      string        `validate:"required"`
	RequestTimeout time.Duration `validate:"gt=0"`
	LogLevel       string        `validate:"oneof=debug info warn error"`
	LogFormat      string        `validate:"oneof=text json"`
	LogFile        string
	MetricsAddr    string `validate:"omitempty,hostname_port"`
}

const (
	defaultConfigPath     = "~/.config/rvshowroom/config.toml"
	defaultAPIBaseURL     = "https://rv-developer-portal-prototype.onrender.com"
	defaultUserAgent      = "rvshowroom/0.1"
	defaultRequestTimeout = 10 * time.Second
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
	defaultLogFile        = "~/.local/state/rvshowroom/rvshowroom.log"
)

// Environment variables that override the file.
const (
	EnvAPIBaseURL  = "RVSHOWROOM_API_BASE_URL"
	EnvLogLevel    = "RVSHOWROOM_LOG_LEVEL"
	EnvMetricsAddr = "RVSHOWROOM_METRICS_ADDR"
)

var validate = validator.New()

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBaseURL:     defaultAPIBaseURL,
		UserAgent:      defaultUserAgent,
		RequestTimeout: defaultRequestTimeout,
		LogLevel:       defaultLogLevel,
		LogFormat:      defaultLogFormat,
		LogFile:        mustExpand(defaultLogFile),
	}
}

// LoadEnvFile loads KEY=value pairs from a dotenv file into the process
// environment. Variables that are already set win. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Load reads the config file, falling back to defaults when it is missing,
// applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := readFile(resolved, &cfg); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	// APIBaseURL is a pointer so an explicit empty value survives.
	var raw struct {
		APIBaseURL     *string `toml:"api_base_url"`
		UserAgent      string  `toml:"user_agent"`
		RequestTimeout string  `toml:"request_timeout"`
		LogLevel       string  `toml:"log_level"`
		LogFormat      string  `toml:"log_format"`
		LogFile        string  `toml:"log_file"`
		MetricsAddr    string  `toml:"metrics_addr"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if raw.APIBaseURL != nil {
		cfg.APIBaseURL = strings.TrimSpace(*raw.APIBaseURL)
	}
	if v := strings.TrimSpace(raw.UserAgent); v != "" {
		cfg.UserAgent = v
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse config: request_timeout: %w", err)
		}
		cfg.RequestTimeout = timeout
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.LogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	return nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvAPIBaseURL); ok {
		cfg.APIBaseURL = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvMetricsAddr); ok {
		cfg.MetricsAddr = strings.TrimSpace(v)
	}
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
