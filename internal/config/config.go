package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	Server    ServerConfig
	Auth      AuthConfig
	Notifier  NotifierConfig
	Highlight HighlightConfig
	League    LeagueConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	DB       int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int
}

// AuthConfig holds token signing configuration
type AuthConfig struct {
	SecretKey        string
	AccessTTLMinutes int
	RefreshTTLDays   int
}

// NotifierConfig holds the record-notification bot endpoint configuration
type NotifierConfig struct {
	BaseURL        string
	MaxRetries     int
	RetryDelaySecs int
	Workers        int
}

// HighlightConfig holds the daily highlight rotation schedule
type HighlightConfig struct {
	Hour     int
	Minute   int
	Timezone string
}

// LeagueConfig holds the current league season
type LeagueConfig struct {
	Season string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "ito"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Username: getEnv("REDIS_USERNAME", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Server: ServerConfig{
			Port: getEnvAsInt("BACKEND_PORT", 8000),
		},
		Auth: AuthConfig{
			SecretKey:        getEnv("SECRET_KEY", ""),
			AccessTTLMinutes: getEnvAsInt("ACCESS_TOKEN_TTL_MINUTES", 20),
			RefreshTTLDays:   getEnvAsInt("REFRESH_TOKEN_TTL_DAYS", 7),
		},
		Notifier: NotifierConfig{
			BaseURL:        getEnv("RECORD_BOT_URL", "https://ito-website-discord-bot.onrender.com"),
			MaxRetries:     getEnvAsInt("RECORD_BOT_MAX_RETRIES", 10),
			RetryDelaySecs: getEnvAsInt("RECORD_BOT_RETRY_DELAY", 50),
			Workers:        getEnvAsInt("RECORD_BOT_WORKERS", 2),
		},
		Highlight: HighlightConfig{
			Hour:     getEnvAsInt("HIGHLIGHT_HOUR", 12),
			Minute:   getEnvAsInt("HIGHLIGHT_MINUTE", 59),
			Timezone: getEnv("HIGHLIGHT_TIMEZONE", "America/New_York"),
		},
		League: LeagueConfig{
			Season: getEnv("LEAGUE_SEASON", "su_25"),
		},
	}

	if cfg.Auth.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}

	return cfg, nil
}

// GetDSN returns the PostgreSQL DSN
func (c *Config) GetDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
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
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
