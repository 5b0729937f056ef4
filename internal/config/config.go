package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
	SessionStore       string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	BedrockBaseURL     string
	BedrockAPIKey      string
	Perplexity         string
	RedditClientID     string
	RedditClientSecret string
	RedditUsername     string
	RedditPassword     string
}

type PipelineConfig struct {
	MaxConcurrency    int
	ItemTimeoutSec    int
	SessionTTLMinutes int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			SessionStore:       getEnv("SESSION_STORE", "memory"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			BedrockBaseURL:     getEnv("BEDROCK_BASE_URL", "http://localhost:8400"),
			BedrockAPIKey:      getEnv("BEDROCK_API_KEY", ""),
			Perplexity:         getEnv("PERPLEXITY_API_KEY", ""),
			RedditClientID:     getEnv("REDDIT_CLIENT_ID", ""),
			RedditClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
			RedditUsername:     getEnv("REDDIT_USERNAME", ""),
			RedditPassword:     getEnv("REDDIT_PASSWORD", ""),
		},
		Pipeline: PipelineConfig{
			MaxConcurrency:    getEnvAsInt("PIPELINE_MAX_CONCURRENCY", 4),
			ItemTimeoutSec:    getEnvAsInt("PIPELINE_ITEM_TIMEOUT_SEC", 120),
			SessionTTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 60),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
