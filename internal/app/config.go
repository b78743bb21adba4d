package app

import (
	"os"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/lyftrides/pkg/ridesdk"
)

type Config struct {
	ClientID     string   // Required: app client ID
	ClientSecret string   // Required: app client secret
	Scopes       []string // Optional: scopes to request (default: all)
	Sandbox      bool     // Optional: route requests to the sandbox environment (default: false)
	APIHost      string   // Optional: API host override (default: production host)

	StoreDriver     string  // Optional: credential store driver (file, sqlite) (default: file)
	StoreFile       string  // Optional: credential store path (default: ./oauth2_session_store.yaml)
	StorePassphrase string  // Optional: passphrase to seal the file store at rest
	RateLimit       float64 // Optional: outbound API requests per second, 0 disables (default: 0)

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: text)
}

func LoadConfig() Config {
	return Config{
		ClientID:     os.Getenv("LYFT_CLIENT_ID"),
		ClientSecret: os.Getenv("LYFT_CLIENT_SECRET"),
		Scopes: strings.Fields(getEnvOrDefault(
			"LYFT_SCOPES",
			strings.Join(ridesdk.AllScopes(), " "),
		)),
		Sandbox: getEnvBoolOrDefault("LYFT_SANDBOX", false),
		APIHost: getEnvOrDefault("LYFT_API_HOST", ridesdk.DefaultBaseURL),

		StoreDriver:     getEnvOrDefault("LYFT_STORE_DRIVER", "file"),
		StoreFile:       getEnvOrDefault("LYFT_STORE_FILE", "oauth2_session_store.yaml"),
		StorePassphrase: os.Getenv("LYFT_STORE_PASSPHRASE"),
		RateLimit:       getEnvFloatOrDefault("LYFT_RATE_LIMIT", 0),

		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
		return floatValue
	}

	return defaultValue
}
