package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DataDir        string
	LogLevel       string
	LogFormat      string
	MaxRequestSize string

	Env     string
	Version string

	OtelEnabled           bool
	OtelEndpoint          string
	OtelServiceName       string
	OtelServiceInstanceID string
	OtelInsecure          bool
}

// Load loads configuration from environment variables
// Automatically loads .env file if present
func Load() *Config {
	// Try to load .env file (fail silently if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DataDir:        getEnv("DATA_DIR", "/var/lib/mockstack"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		MaxRequestSize: getEnv("MAX_REQUEST_SIZE", "1MB"),

		Env:     getEnv("ENV", "development"),
		Version: getEnv("VERSION", "dev"),

		OtelEnabled:           getEnvBool("OTEL_ENABLED", false),
		OtelEndpoint:          getEnv("OTEL_ENDPOINT", "localhost:4317"),
		OtelServiceName:       getEnv("OTEL_SERVICE_NAME", "mockstack"),
		OtelServiceInstanceID: getEnv("OTEL_SERVICE_INSTANCE_ID", hostname()),
		OtelInsecure:          getEnvBool("OTEL_INSECURE", true),
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func hostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}
