package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Redis session backend
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Session retention policy
	SessionTTL     time.Duration
	MaxMessages    int64
	HistoryLimit   int
	DefaultLang    string
	MaxMessageLen  int

	// Safety policy constants. The thresholds have no derivation beyond the
	// shipped tables; they are configurable rather than re-derived.
	CrisisConfidence float64
	DangerThreshold  int
	WarningThreshold int

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		MaxMessages:   int64(getEnvAsInt("SESSION_MAX_MESSAGES", 100)),
		HistoryLimit:  getEnvAsInt("SESSION_HISTORY_LIMIT", 20),
		DefaultLang:   getEnv("DEFAULT_LANGUAGE", "ar"),
		MaxMessageLen: getEnvAsInt("MAX_MESSAGE_LENGTH", 2000),

		CrisisConfidence: getEnvAsFloat("SAFETY_CRISIS_CONFIDENCE", 0.95),
		DangerThreshold:  getEnvAsInt("SAFETY_DANGER_THRESHOLD", 3),
		WarningThreshold: getEnvAsInt("SAFETY_WARNING_THRESHOLD", 1),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
