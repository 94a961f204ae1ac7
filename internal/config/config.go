package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                         string
	MongoURI                     string
	MongoDatabase                string
	PingCollection               string
	OrganizationCollection       string
	UserCollection               string
	FormCollection               string
	ResponseCollection           string
	FailedNotificationCollection string
	Timeout                      time.Duration
	Timezone                     string
	ServerLog                    *log.Logger
	JWTConfigs                   []JWTConfig
	JWTAudience                  string
	GeminiAPIKey                 string
	GeminiModel                  string
	GeminiEndpoint               string
	AnalyzeTimeout               time.Duration
	NotifyTimeout                time.Duration
	AllowedOrigins               []string
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	analyzeTimeout := 20 * time.Second
	if raw := strings.TrimSpace(os.Getenv("AI_ANALYZE_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			analyzeTimeout = parsed
		}
	}

	notifyTimeout := 3 * time.Second
	if raw := strings.TrimSpace(os.Getenv("NOTIFY_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			notifyTimeout = parsed
		}
	}

	geminiEndpoint := strings.TrimSpace(os.Getenv("GEMINI_ENDPOINT"))
	if geminiEndpoint == "" {
		geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	}

	allowedOrigins := parseList("API_ALLOWED_ORIGINS", []string{"*"})

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_JWT_ISSUER", "cocosurvey-auth"),
			Secret: []byte(secret),
		})
	}
	if secret := strings.TrimSpace(os.Getenv("AUTH_GOOGLE_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_GOOGLE_JWT_ISSUER", "auth-google"),
			Secret: []byte(secret),
		})
	}

	if len(jwtConfigs) == 0 {
		log.Fatal("JWT secrets not configured. Set AUTH_JWT_SECRET or AUTH_GOOGLE_JWT_SECRET.")
	}

	jwtAudience := strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE"))

	cfg := Config{
		Addr:                         envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:                     envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:                envOrDefault("MONGO_DB", "cocosurvey"),
		PingCollection:               envOrDefault("PING_COLLECTION", "pings"),
		OrganizationCollection:       envOrDefault("ORGANIZATION_COLLECTION", "surveyOrganizations"),
		UserCollection:               envOrDefault("USER_COLLECTION", "surveyUsers"),
		FormCollection:               envOrDefault("FORM_COLLECTION", "surveyForms"),
		ResponseCollection:           envOrDefault("RESPONSE_COLLECTION", "surveyResponses"),
		FailedNotificationCollection: envOrDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications"),
		Timeout:                      timeout,
		Timezone:                     envOrDefault("TIMEZONE", "Asia/Tokyo"),
		ServerLog:                    log.New(os.Stdout, "[cocosurvey-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:                   jwtConfigs,
		JWTAudience:                  jwtAudience,
		GeminiAPIKey:                 strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:                  envOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiEndpoint:               strings.TrimRight(geminiEndpoint, "/"),
		AnalyzeTimeout:               analyzeTimeout,
		NotifyTimeout:                notifyTimeout,
		AllowedOrigins:               allowedOrigins,
	}

	if cfg.GeminiAPIKey == "" {
		cfg.ServerLog.Printf("GEMINI_API_KEY が未設定のため AI 分析は無効化されます")
	}

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
