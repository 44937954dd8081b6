package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("EMAIL_USER", "owner@example.com")
	t.Setenv("EMAIL_PASS", "app-password")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", cfg.EmailUser)
	assert.Equal(t, "owner@example.com", cfg.ContactEmailTo, "owner address falls back to the sending account")
	assert.Equal(t, MailProviderSMTP, cfg.MailProvider)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, "587", cfg.SMTPPort)
	assert.Equal(t, 15*time.Second, cfg.SMTPTimeout)
	assert.True(t, cfg.ContactRateLimitEnabled)
	assert.Equal(t, 10*time.Minute, cfg.RateWindow())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("EMAIL_USER", "owner@example.com")
	t.Setenv("CONTACT_EMAIL_TO", "inbox@example.com")
	t.Setenv("MAIL_PROVIDER", "Gmail")
	t.Setenv("SMTP_TIMEOUT", "3s")
	t.Setenv("CONTACT_RATE_LIMIT_ENABLED", "false")
	t.Setenv("CONTACT_RATE_LIMIT", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", " https://example.dev/ , ,https://www.example.dev")
	t.Setenv("GIN_MODE", "release")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "inbox@example.com", cfg.ContactEmailTo)
	assert.Equal(t, MailProviderGmail, cfg.MailProvider)
	assert.Equal(t, 3*time.Second, cfg.SMTPTimeout)
	assert.False(t, cfg.ContactRateLimitEnabled)
	assert.Equal(t, 5, cfg.ContactRateLimit, "invalid ints keep the fallback")
	assert.Equal(t, []string{"https://example.dev", "https://www.example.dev"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsProduction())
}
