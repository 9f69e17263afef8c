// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// AIGatewayConfig provides settings for the streaming completion gateway.
type AIGatewayConfig interface {
	GetAIGatewayURL() string
	GetAIGatewayKey() string
	GetAIModel() string
	GetAIStreamTimeout() time.Duration
}

// AgendaConfig provides settings for the event scrape pipeline.
type AgendaConfig interface {
	GetFirecrawlAPIKey() string
	GetAgendaSources() []string
	GetAgendaCacheTTL() time.Duration
	IsAgendaEnabled() bool
}

// SchoolsConfig provides settings for the DUO open-data client.
type SchoolsConfig interface {
	GetDUOBaseURL() string
	GetSchoolsGemeente() string
	GetSchoolsCacheTTL() time.Duration
}

// EmailConfig provides settings for advisor email notifications.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetAdvisorInbox() string
}

// SchedulerConfig provides settings for background cache refresh.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetAgendaRefreshInterval() time.Duration
	GetSchoolsRefreshInterval() time.Duration
	IsSchedulerEnabled() bool
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketAvatars() string
	GetMinioBucketDocuments() string
	IsMinIOEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	JWTAccessSecret      string
	CORSAllowAll         bool
	CORSOrigins          []string
	CORSAllowCreds       bool
	AppBaseURL           string
	AIGatewayURL         string
	AIGatewayKey         string
	AIModel              string
	AIStreamTimeout      time.Duration
	FirecrawlAPIKey      string
	AgendaSources        []string
	AgendaCacheTTL       time.Duration
	DUOBaseURL           string
	SchoolsGemeente      string
	SchoolsCacheTTL      time.Duration
	RedisURL             string
	RedisTLSInsecure     bool
	AsynqQueueName       string
	AsynqConcurrency     int
	AgendaRefreshIvl     time.Duration
	SchoolsRefreshIvl    time.Duration
	EmailEnabled         bool
	SMTPHost             string
	SMTPPort             int
	SMTPUsername         string
	SMTPPassword         string
	EmailFromName        string
	EmailFromAddress     string
	AdvisorInbox         string
	MinIOEndpoint        string
	MinIOAccessKey       string
	MinIOSecretKey       string
	MinIOUseSSL          bool
	MinIOMaxFileSize     int64
	MinioBucketAvatars   string
	MinioBucketDocuments string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// AIGatewayConfig implementation
func (c *Config) GetAIGatewayURL() string             { return c.AIGatewayURL }
func (c *Config) GetAIGatewayKey() string             { return c.AIGatewayKey }
func (c *Config) GetAIModel() string                  { return c.AIModel }
func (c *Config) GetAIStreamTimeout() time.Duration   { return c.AIStreamTimeout }

// AgendaConfig implementation
func (c *Config) GetFirecrawlAPIKey() string         { return c.FirecrawlAPIKey }
func (c *Config) GetAgendaSources() []string         { return c.AgendaSources }
func (c *Config) GetAgendaCacheTTL() time.Duration   { return c.AgendaCacheTTL }
func (c *Config) IsAgendaEnabled() bool              { return c.FirecrawlAPIKey != "" }

// SchoolsConfig implementation
func (c *Config) GetDUOBaseURL() string              { return c.DUOBaseURL }
func (c *Config) GetSchoolsGemeente() string         { return c.SchoolsGemeente }
func (c *Config) GetSchoolsCacheTTL() time.Duration  { return c.SchoolsCacheTTL }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetAdvisorInbox() string     { return c.AdvisorInbox }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string                        { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool                  { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string                  { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int                   { return c.AsynqConcurrency }
func (c *Config) GetAgendaRefreshInterval() time.Duration    { return c.AgendaRefreshIvl }
func (c *Config) GetSchoolsRefreshInterval() time.Duration   { return c.SchoolsRefreshIvl }
func (c *Config) IsSchedulerEnabled() bool                   { return c.RedisURL != "" }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string        { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string       { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string       { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool            { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64      { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketAvatars() string   { return c.MinioBucketAvatars }
func (c *Config) GetMinioBucketDocuments() string { return c.MinioBucketDocuments }
func (c *Config) IsMinIOEnabled() bool            { return c.MinIOEndpoint != "" }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		JWTAccessSecret:      getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		CORSAllowCreds:       strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		AppBaseURL:           getEnv("APP_BASE_URL", "http://localhost:5173"),
		AIGatewayURL:         getEnv("AI_GATEWAY_URL", ""),
		AIGatewayKey:         getEnv("AI_GATEWAY_KEY", ""),
		AIModel:              getEnv("AI_MODEL", "google/gemini-2.5-flash"),
		AIStreamTimeout:      mustDuration(getEnv("AI_STREAM_TIMEOUT", "120s")),
		FirecrawlAPIKey:      getEnv("FIRECRAWL_API_KEY", ""),
		AgendaSources:        splitCSV(getEnv("AGENDA_SOURCES", "")),
		AgendaCacheTTL:       mustDuration(getEnv("AGENDA_CACHE_TTL", "24h")),
		DUOBaseURL:           getEnv("DUO_BASE_URL", "https://onderwijsdata.duo.nl"),
		SchoolsGemeente:      getEnv("SCHOOLS_GEMEENTE", "Rotterdam"),
		SchoolsCacheTTL:      mustDuration(getEnv("SCHOOLS_CACHE_TTL", "168h")),
		RedisURL:             getEnv("REDIS_URL", ""),
		RedisTLSInsecure:     strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:       getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:     int(mustInt64(getEnv("ASYNQ_CONCURRENCY", "5"))),
		AgendaRefreshIvl:     mustDuration(getEnv("AGENDA_REFRESH_INTERVAL", "6h")),
		SchoolsRefreshIvl:    mustDuration(getEnv("SCHOOLS_REFRESH_INTERVAL", "24h")),
		EmailEnabled:         emailEnabled && smtpHost != "",
		SMTPHost:             smtpHost,
		SMTPPort:             int(mustInt64(getEnv("SMTP_PORT", "587"))),
		SMTPUsername:         getEnv("SMTP_USERNAME", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		EmailFromName:        getEnv("EMAIL_FROM_NAME", "Onderwijsloket Rotterdam"),
		EmailFromAddress:     getEnv("EMAIL_FROM_ADDRESS", ""),
		AdvisorInbox:         getEnv("ADVISOR_INBOX", ""),
		MinIOEndpoint:        getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:       getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:       getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:          strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:     mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "10485760")),
		MinioBucketAvatars:   getEnv("MINIO_BUCKET_AVATARS", "profile-avatars"),
		MinioBucketDocuments: getEnv("MINIO_BUCKET_DOCUMENTS", "profile-documents"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.AIGatewayURL == "" || cfg.AIGatewayKey == "" {
		return nil, fmt.Errorf("AI_GATEWAY_URL and AI_GATEWAY_KEY are required")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
