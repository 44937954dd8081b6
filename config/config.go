package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Mail providers understood by MailProvider.
const (
	MailProviderSMTP  = "smtp"
	MailProviderGmail = "gmail"
)

type Config struct {
	Port        string
	GinMode     string
	LogLevel    string
	LogFormat   string
	MaxBodySize int64
	// Comma separated ALLOWED_ORIGINS
	AllowedOrigins []string

	// Sending account (EMAIL_USER / EMAIL_PASS)
	EmailUser     string
	EmailPassword string
	EmailFromName string
	// Where owner notifications go; falls back to EmailUser
	ContactEmailTo string
	MailProvider   string

	// SMTP relay
	SMTPHost    string
	SMTPPort    string
	SMTPTimeout time.Duration

	// Gmail API (MAIL_PROVIDER=gmail)
	GmailCredentialsJSON string
	GmailClientID        string
	GmailClientSecret    string
	GmailRefreshToken    string

	// Auto-reply signature
	SiteOwnerName  string
	SiteOwnerTitle string

	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string

	// Rate Limiting Configuration
	ContactRateLimitEnabled  bool
	ContactRateLimit         int
	ContactRateWindowSeconds int
}

func LoadConfig() (*Config, error) {
	// Only effective locally; production injects the environment directly
	_ = godotenv.Load()

	emailUser := strings.TrimSpace(getEnv("EMAIL_USER", ""))

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		MaxBodySize:    int64(getEnvInt("MAX_BODY_BYTES", 64<<10)),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		EmailUser:      emailUser,
		EmailPassword:  getEnv("EMAIL_PASS", ""),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", ""),
		ContactEmailTo: strings.TrimSpace(getEnv("CONTACT_EMAIL_TO", emailUser)),
		MailProvider:   strings.ToLower(getEnv("MAIL_PROVIDER", MailProviderSMTP)),

		SMTPHost:    getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:    getEnv("SMTP_PORT", "587"),
		SMTPTimeout: getEnvDuration("SMTP_TIMEOUT", 15*time.Second),

		GmailCredentialsJSON: getEnv("GMAIL_CREDENTIALS_JSON", ""),
		GmailClientID:        getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret:    getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken:    getEnv("GMAIL_REFRESH_TOKEN", ""),

		SiteOwnerName:  getEnv("SITE_OWNER_NAME", "Ketan Thombare"),
		SiteOwnerTitle: getEnv("SITE_OWNER_TITLE", "Full Stack Developer & AI Enthusiast"),

		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),

		ContactRateLimitEnabled:  getEnvBool("CONTACT_RATE_LIMIT_ENABLED", true),
		ContactRateLimit:         getEnvInt("CONTACT_RATE_LIMIT", 5),            // 5 messages
		ContactRateWindowSeconds: getEnvInt("CONTACT_RATE_WINDOW_SECONDS", 600), // per 10 minutes
	}

	if cfg.EmailUser == "" {
		log.Println("WARNING: EMAIL_USER is missing. Contact form submissions will fail.")
	}
	if cfg.MailProvider == MailProviderSMTP && cfg.EmailPassword == "" {
		log.Println("WARNING: EMAIL_PASS is missing. SMTP authentication will fail.")
	}

	// Log Redis configuration status (helpful for debugging)
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// RateWindow returns the contact rate-limit window.
func (c *Config) RateWindow() time.Duration {
	return time.Duration(c.ContactRateWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("15s", "1m")
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty items
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimRight(strings.TrimSpace(item), "/")
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
