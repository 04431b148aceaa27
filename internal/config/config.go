package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Assistant AssistantConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	MetadataBackend    string // "postgres", "redis" or "memory"
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	OpenAIKey   string
	OpenAIModel string
}

type AssistantConfig struct {
	LibraryStoreIds     []string
	SessionIndexTTL     time.Duration
	IndexingWaitTimeout time.Duration
	MaxUploadFiles      int
	MaxUploadBytes      int64
	StrictRetrieval     bool
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
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			MetadataBackend:    getEnv("METADATA_BACKEND", "postgres"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
			OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Assistant: AssistantConfig{
			LibraryStoreIds:     getEnvAsList("LIBRARY_STORE_IDS"),
			SessionIndexTTL:     time.Duration(getEnvAsInt("SESSION_INDEX_TTL_MINUTES", 60)) * time.Minute,
			IndexingWaitTimeout: time.Duration(getEnvAsInt("INDEXING_WAIT_TIMEOUT_SECONDS", 20)) * time.Second,
			MaxUploadFiles:      getEnvAsInt("MAX_UPLOAD_FILES", 5),
			MaxUploadBytes:      int64(getEnvAsInt("MAX_UPLOAD_MEGABYTES", 20)) * 1024 * 1024,
			StrictRetrieval:     getEnv("ASSISTANT_STRICT_RETRIEVAL", "true") == "true",
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

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
