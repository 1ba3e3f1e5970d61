package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string

	// Store backend: "postgres" or "memory"
	DBBackend  string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret      string
	AllowedOrigins []string
}

func Load() *Config {
	// .env is optional; real env vars win
	_ = godotenv.Load()

	return &Config{
		ServerAddr: getEnvOrDefault("SERVER_ADDR", ":8080"),
		DBBackend:  getEnvOrDefault("DB_BACKEND", "postgres"),
		DBHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:     getEnvOrDefault("DB_PORT", "5432"),
		DBUser:     getEnvOrDefault("DB_USER", "blogapp"),
		DBPassword: getEnvOrDefault("DB_PASSWORD", "blogapp_dev_password"),
		DBName:     getEnvOrDefault("DB_NAME", "blogapp"),
		JWTSecret:  getEnvOrDefault("JWT_SECRET", generateDefaultSecret()),
		AllowedOrigins: splitOrigins(
			getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:5174"),
		),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func generateDefaultSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "dev-secret-change-in-production"
	}
	return hex.EncodeToString(bytes)
}
