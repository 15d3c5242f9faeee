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
	Supabase  SupabaseConfig
	Assistant AssistantConfig
	Stripe    StripeConfig
	Access    AccessConfig
	SMTP      SMTPConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
	NatsURL            string
	TurnTopic          string
}

type DatabaseConfig struct {
	Connection string
}

type SupabaseConfig struct {
	URL       string
	AnonKey   string
	JWTSecret string
	Bucket    string
	PdfFolder string
}

type AssistantConfig struct {
	APIKey  string
	BaseURL string
	// Assistant identity per chat surface. "default" backs the plain /chat
	// view; the others back the routed assistant pages.
	AssistantIDs map[string]string
	PollInterval time.Duration
	PollTimeout  time.Duration
}

type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	PriceID        string
	PublishableKey string
}

// AccessConfig carries the gate switches. Resolved once here, threaded
// explicitly; no module-level flags.
type AccessConfig struct {
	AuthBypass bool
	TestEmails []string
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

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			TurnTopic:          getEnv("TURN_COMPLETED_TOPIC_NAME", "CONVERSATION_TURN_COMPLETED"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Supabase: SupabaseConfig{
			URL:       getEnv("SUPABASE_URL", ""),
			AnonKey:   getEnv("SUPABASE_ANON_KEY", ""),
			JWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),
			Bucket:    getEnv("SUPABASE_STORAGE_BUCKET", "strategy-buddy"),
			PdfFolder: getEnv("SUPABASE_PDF_FOLDER", "predefined"),
		},
		Assistant: AssistantConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
			AssistantIDs: map[string]string{
				"default":        getEnv("ASSISTANT_ID", ""),
				"strategy1":      getEnv("ASSISTANT_ID_STRATEGY1", getEnv("ASSISTANT_ID", "")),
				"strategy2":      getEnv("ASSISTANT_ID_STRATEGY2", getEnv("ASSISTANT_ID", "")),
				"differentiator": getEnv("ASSISTANT_ID_DIFFERENTIATOR", getEnv("ASSISTANT_ID", "")),
			},
			PollInterval: getEnvAsDuration("ASSISTANT_POLL_INTERVAL", time.Second),
			PollTimeout:  getEnvAsDuration("ASSISTANT_POLL_TIMEOUT", 120*time.Second),
		},
		Stripe: StripeConfig{
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),
			PriceID:        getEnv("STRIPE_PRICE_ID", ""),
			PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
		},
		Access: AccessConfig{
			AuthBypass: getEnvAsBool("AUTH_BYPASS", false),
			TestEmails: getEnvAsList("TEST_ACCOUNT_EMAILS", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Strategy Buddy"),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key, fallback string) []string {
	raw := getEnv(key, fallback)
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
