// Package config
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	// Router endpoint
	RouterHost       string `validate:"required"`
	RouterPort       int    `validate:"required,min=1,max=65535"`
	RouterUsername   string `validate:"required"`
	RouterPassword   string `validate:"required"`
	RouterSkipVerify bool

	// Poll loop
	PollInterval time.Duration `validate:"required"`
	DialTimeout  time.Duration
	ReadTimeout  time.Duration

	// Dashboard HTTP
	Address        string `validate:"required"`
	AllowedOrigins []string

	// Dashboard auth
	JWTSecret     string        `validate:"required,min=32"`
	JWTExpiry     time.Duration `validate:"required"`
	AdminEmail    string        `validate:"required,email"`
	AdminPassword string        `validate:"required,min=8"`

	// Storage
	DBPath           string `validate:"required"`
	HistoryRetention time.Duration
	SampleRetention  time.Duration
	FlushInterval    time.Duration
	FlushBatchSize   int

	// Logging
	LogLevel  string
	LogFormat string
}

var validate = validator.New()

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		RouterHost:       getEnv("IPFIRE_HOST", ""),
		RouterPort:       getEnvInt("IPFIRE_PORT", 444),
		RouterUsername:   getEnv("IPFIRE_USERNAME", ""),
		RouterPassword:   getEnv("IPFIRE_PASSWORD", ""),
		RouterSkipVerify: getEnvBool("IPFIRE_SKIP_VERIFY", false),

		PollInterval: getEnvDuration("POLL_INTERVAL", 3*time.Second),
		DialTimeout:  getEnvDuration("DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  getEnvDuration("READ_TIMEOUT", 10*time.Second),

		Address:        getEnv("HTTP_ADDR", ":3000"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiry:     getEnvDuration("JWT_EXPIRY", 24*time.Hour),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		DBPath:           getEnv("DB_PATH", "ipfiretray.db"),
		HistoryRetention: getEnvDuration("HISTORY_RETENTION", 15*time.Minute),
		SampleRetention:  getEnvDuration("SAMPLE_RETENTION", 7*24*time.Hour),
		FlushInterval:    getEnvDuration("FLUSH_INTERVAL", 15*time.Second),
		FlushBatchSize:   getEnvInt("FLUSH_BATCH_SIZE", 50),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if v, err := time.ParseDuration(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
