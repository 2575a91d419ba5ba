package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
)

const EnvProduction = "production"

type Config struct {
	Env      string
	HTTPPort string

	DatabaseURL string

	SessionSecret string
	SessionTTL    time.Duration

	CognitoRegion      string
	CognitoPoolID      string
	CognitoAppClientID string

	S3Region        string
	S3Bucket        string
	S3PublicBaseURL string
	CVURLTTL        time.Duration

	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	SMTPFrom         string
	AdminNotifyEmail string
	AdminEmails      []string

	RedisAddr       string
	LoginRateLimit  int
	LoginRateWindow time.Duration

	WSGatewayEndpoint string
	WSGatewayRegion   string

	DevActorID    string
	SnowflakeNode int64
}

func Load() *Config {
	cfg := &Config{
		Env:                getEnv("GO_ENV", "development"),
		HTTPPort:           getEnv("HTTP_PORT", "7070"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionTTL:         getDuration("SESSION_TTL", 8*time.Hour),
		CognitoRegion:      getEnv("COGNITO_REGION", ""),
		CognitoPoolID:      getEnv("COGNITO_POOL_ID", ""),
		CognitoAppClientID: getEnv("COGNITO_APP_CLIENT_ID", ""),
		S3Region:           getEnv("AWS_S3_REGION", ""),
		S3Bucket:           getEnv("S3_BUCKET_NAME", ""),
		S3PublicBaseURL:    getEnv("S3_PUBLIC_BASE_URL", ""),
		CVURLTTL:           getDuration("CV_URL_TTL", 10*time.Minute),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getInt("SMTP_PORT", 587),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:           getEnv("SMTP_FROM", ""),
		AdminNotifyEmail:   getEnv("ADMIN_NOTIFY_EMAIL", ""),
		AdminEmails:        getList("ADMIN_EMAILS"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		LoginRateLimit:     getInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow:    getDuration("LOGIN_RATE_WINDOW", time.Minute),
		WSGatewayEndpoint:  getEnv("WS_GATEWAY_ENDPOINT", ""),
		WSGatewayRegion:    getEnv("WS_GATEWAY_REGION", ""),
		DevActorID:         getEnv("DEV_ACTOR_ID", ""),
		SnowflakeNode:      int64(getInt("SNOWFLAKE_NODE", 1)),
	}

	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is required")
	}
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUsername
	}
	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// IsAdminEmail reports whether email belongs to the configured
// administrator list. Comparison ignores case.
func (c *Config) IsAdminEmail(email string) bool {
	for _, admin := range c.AdminEmails {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
		log.Warnf("invalid duration for %s: %q, using %s", key, value, fallback)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
		log.Warnf("invalid integer for %s: %q, using %d", key, value, fallback)
	}
	return fallback
}

func getList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
