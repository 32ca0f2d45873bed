package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

const (
	devJWTSecret      = "dev-secret-change-in-production"
	devFingerprintKey = "dev-fingerprint-key-change-in-production"
)

var (
	ErrDevSecretInProduction = errors.New("JWT_SECRET and FINGERPRINT_KEY must be set in production environment")
	ErrInvalidRateLimit      = errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
)

type Config struct {
	Port           string
	Env            string
	LogLevel       string
	LogFormat      string
	DatabaseDSN    string
	JWTSecret      string
	JWTExpiry      time.Duration
	FingerprintKey string
	RateLimitRPS   float64
	RateLimitBurst int
	DefaultLength  int
}

// Load reads the configuration from the environment, falling back to development defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/passforge"),
		JWTSecret:      getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiry:      getDuration("JWT_EXPIRY", 24*time.Hour),
		FingerprintKey: getEnv("FINGERPRINT_KEY", devFingerprintKey),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 10),
		DefaultLength:  getInt("DEFAULT_LENGTH", 16),
	}

	if cfg.Env == "production" && (cfg.JWTSecret == devJWTSecret || cfg.FingerprintKey == devFingerprintKey) {
		return cfg, ErrDevSecretInProduction
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return cfg, ErrInvalidRateLimit
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}
