// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	// AssistantBaseURL is the remote backend every intelligent behavior is
	// delegated to.
	AssistantBaseURL string
	// PreferenceDBPath is the sqlite file holding the two persisted UI flags.
	PreferenceDBPath string
	// HistoryWindow is the number of trailing messages sent as chat context.
	HistoryWindow int
	Environment   string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		AssistantBaseURL: getEnv("ASSISTANT_BASE_URL", "http://localhost:5001"),
		PreferenceDBPath: getEnv("PREFERENCE_DB_PATH", "preferences.db"),
		HistoryWindow:    getEnvAsInt("HISTORY_WINDOW", 50),
		Environment:      env,
	}

	if strings.ToLower(env) == "production" && strings.TrimSpace(cfg.AssistantBaseURL) == "" {
		log.Fatalf("Missing required production environment variable: ASSISTANT_BASE_URL")
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
