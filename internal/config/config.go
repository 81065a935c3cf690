package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	WordListPath     string
	PlayableListPath string

	JWTSecret     string
	TokenDuration time.Duration

	AWSRegion  string
	EmailFrom  string
	EmailName  string
	AppBaseURL string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:       getEnv("PORT", "8080"),
		DatabaseType:     getEnv("DATABASE_TYPE", "sqlite"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DatabasePath:     getEnv("DB_PATH", "./wordrealm.db"),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "./migrations"),
		WordListPath:     getEnv("WORDLIST_PATH", "./data/wordlist.txt"),
		PlayableListPath: getEnv("PLAYABLE_WORDLIST_PATH", "./data/playablewordlist.txt"),
		JWTSecret:        getEnv("JWT_SECRET", "dev-only-secret"),
		TokenDuration:    24 * time.Hour,
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		EmailFrom:        getEnv("SES_FROM_EMAIL", ""),
		EmailName:        getEnv("SES_FROM_NAME", "Wordrealm"),
		AppBaseURL:       getEnv("APP_BASE_URL", "http://localhost:3000"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
