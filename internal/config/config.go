package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	SQLitePath      string
	DatabaseName    string
	UpstreamBaseURL string
	// RedisAddr is empty when no shared cache is configured
	RedisAddr     string
	CacheTTL      time.Duration
	RestartSecret string
	CORSOrigin    string
}

// LoadConfig reads the environment, optionally seeded from a .env file. The
// portal must boot with an empty environment, so every key has a default.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment and defaults")
	}

	databaseName := getEnv("DATABASE_NAME", "portal")

	config := &Config{
		Port:            getEnv("PORT", "4001"),
		DatabaseName:    databaseName,
		SQLitePath:      getEnv("SQLITE_PATH", filepath.Join("data", fmt.Sprintf("%s.db", databaseName))),
		UpstreamBaseURL: getEnv("UPSTREAM_BASE_URL", "http://localhost:4002"),
		RestartSecret:   getEnv("RESTART_SECRET", "dev-restart"),
		CORSOrigin:      getEnv("CORS_ORIGIN", "*"),
	}

	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		config.RedisAddr = net.JoinHostPort(redisHost, getEnv("REDIS_PORT", "6379"))
	}

	ttlSeconds := 5
	if raw := os.Getenv("CLIENTS_CACHE_TTL"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			return nil, fmt.Errorf("CLIENTS_CACHE_TTL must be a positive integer, got %q", raw)
		}
		ttlSeconds = value
	}
	config.CacheTTL = time.Duration(ttlSeconds) * time.Second

	return config, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
