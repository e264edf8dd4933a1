package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Discovery DiscoveryConfig
	Webhooks  WebhookConfig
	SMTP      SMTPConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	StopwordsPath      string
	ConversationTopic  string
}

type DatabaseConfig struct {
	Connection string
}

type DiscoveryConfig struct {
	ProjectID        string
	Location         string
	EngineID         string
	ModelVersion     string
	SystemPromptPath string
	// AccessToken is a static bearer token for local development. Empty
	// in deployed environments, where the metadata server is used.
	AccessToken string
}

type WebhookConfig struct {
	GoogleChatURL string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	cfg := &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", ""),
			StopwordsPath:      getEnv("STOPWORDS_PATH", "configs/stopwords.txt"),
			ConversationTopic:  getEnv("CONVERSATION_TOPIC_NAME", "CONVERSATION_MESSAGES"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Discovery: DiscoveryConfig{
			ProjectID:        getEnv("DISCOVERY_PROJECT_ID", ""),
			Location:         getEnv("DISCOVERY_LOCATION", "global"),
			EngineID:         getEnv("DISCOVERY_ENGINE_ID", ""),
			ModelVersion:     getEnv("DISCOVERY_MODEL_VERSION", "gemini-2.5-flash/answer_gen/v1"),
			SystemPromptPath: getEnv("SYSTEM_PROMPT_PATH", ""),
			AccessToken:      getEnv("DISCOVERY_ACCESS_TOKEN", ""),
		},
		Webhooks: WebhookConfig{
			GoogleChatURL: getEnv("GOOGLE_CHAT_WEBHOOK_URL", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "처음서비스"),
		},
	}

	if cfg.Discovery.ProjectID == "" || cfg.Discovery.EngineID == "" {
		log.Fatal("DISCOVERY_PROJECT_ID and DISCOVERY_ENGINE_ID are required")
	}
	if cfg.Database.Connection == "" {
		log.Fatal("DB_CONNECTION_STRING is required")
	}

	return cfg
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
