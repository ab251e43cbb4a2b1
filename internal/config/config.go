package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Redis    RedisConfig
	Nats     NatsConfig
	Database DatabaseConfig
	Memory   MemoryConfig
	Ai       AIConfig
	Lock     LockConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	LLMLogFilePath     string
	CorsAllowedOrigins string
	Namespace          string // Prefix for every store key and memory-server call
	JwtSecret          string // Empty disables bearer auth
}

type RedisConfig struct {
	URL string
}

type NatsConfig struct {
	Enabled bool
	URL     string
	Stream  string
}

type DatabaseConfig struct {
	Driver     string // "redis" | "postgres"
	Connection string
}

type MemoryConfig struct {
	BaseURL          string
	ContextWindowMax int
	ClientVersion    string
	Timeout          time.Duration
	SearchLimit      int
}

type AIConfig struct {
	LLMProvider     string // "ollama" | "anthropic"
	LLMModel        string
	OllamaBaseURL   string
	AnthropicAPIKey string
	Temperature     float64
	MaxTokens       int
}

type LockConfig struct {
	Driver string // "none" | "memory" | "redis"
	TTL    time.Duration
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3001"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			LLMLogFilePath:     getEnv("LLM_LOG_FILE_PATH", "logs/llm.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			Namespace:          getEnv("APP_NAMESPACE", "podbot"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Nats: NatsConfig{
			Enabled: getEnvAsBool("NATS_ENABLED", false),
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Stream:  getEnv("NATS_STREAM", "PODBOT_EVENTS"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("STORAGE_DRIVER", "redis"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Memory: MemoryConfig{
			BaseURL:          getEnv("AMS_BASE_URL", "http://localhost:8000"),
			ContextWindowMax: getEnvAsInt("AMS_CONTEXT_WINDOW_MAX", 4000),
			ClientVersion:    getEnv("AMS_CLIENT_VERSION", "0.12.0"),
			Timeout:          getEnvAsDuration("AMS_TIMEOUT", 30*time.Second),
			SearchLimit:      getEnvAsInt("AMS_SEARCH_LIMIT", 100),
		},
		Ai: AIConfig{
			LLMProvider:     getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:        getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			Temperature:     getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			MaxTokens:       getEnvAsInt("LLM_MAX_TOKENS", 1024),
		},
		Lock: LockConfig{
			Driver: getEnv("SESSION_LOCK_DRIVER", "none"),
			TTL:    getEnvAsDuration("SESSION_LOCK_TTL", 2*time.Minute),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("30s", "2m").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
