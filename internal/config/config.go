package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server
	Port            int           `yaml:"port"`
	Env             string        `yaml:"env"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// CORS
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Prediction backend
	PredictorURL   string        `yaml:"predictor_url"`
	PredictPath    string        `yaml:"predict_path"`
	PredictTimeout time.Duration `yaml:"predict_timeout"`

	// Sessions
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// Load builds the configuration from an optional YAML file named by
// CONFIG_FILE, then environment variables, which take precedence.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            8080,
		Env:             "development",
		ShutdownTimeout: 10 * time.Second,
		AllowedOrigins:  []string{"http://localhost:3000"},
		PredictPath:     "/api/predict",
		PredictTimeout:  30 * time.Second,
		SessionTTL:      30 * time.Minute,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnvInt("PORT", cfg.Port)
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.PredictorURL = getEnv("PREDICTOR_URL", cfg.PredictorURL)
	cfg.PredictPath = getEnv("PREDICT_PATH", cfg.PredictPath)
	cfg.PredictTimeout = getEnvDuration("PREDICT_TIMEOUT", cfg.PredictTimeout)
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", cfg.SessionTTL)

	// CORS
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}

	// Critical configuration - fail if missing
	if cfg.PredictorURL == "" {
		return nil, fmt.Errorf("missing required environment variable: %s", "PREDICTOR_URL")
	}
	if cfg.PredictTimeout < 0 {
		return nil, fmt.Errorf("PREDICT_TIMEOUT must not be negative")
	}

	return cfg, nil
}

// IsDevelopment reports whether verbose development logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
