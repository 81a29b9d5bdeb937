package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.Addr)

	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Host)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, "info@bfluegel.de", cfg.Mail.ToAddress)

	assert.Equal(t, 5, cfg.Security.RateLimit)
	assert.Equal(t, time.Hour, cfg.Security.RateLimitWindow)
	assert.Empty(t, cfg.Security.ConsentToken)

	assert.Equal(t, "logs/contact_form.log", cfg.Audit.LogFile)

	assert.Equal(t, 3, cfg.Client.RetryAttempts)
	assert.Equal(t, 2*time.Second, cfg.Client.RetryDelay)
	assert.Equal(t, time.Second, cfg.Client.AutosaveQuiet)
	assert.Equal(t, 3, cfg.Client.MaxSubmissions)
	assert.Equal(t, "de", cfg.Client.Language)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CONTACT_ENV", "production")
	t.Setenv("CONTACT_ADDR", ":9090")
	t.Setenv("CONTACT_MAIL_HOST", "mail.example.com")
	t.Setenv("CONTACT_MAIL_PORT", "2525")
	t.Setenv("CONTACT_SECURITY_RATE_LIMIT", "10")
	t.Setenv("CONTACT_SECURITY_RATE_LIMIT_WINDOW", "30m")
	t.Setenv("CONTACT_SECURITY_CONSENT_TOKEN", "secret-token")
	t.Setenv("CONTACT_CLIENT_RETRY_DELAY", "500ms")
	t.Setenv("CONTACT_CLIENT_LANGUAGE", "en")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "mail.example.com", cfg.Mail.Host)
	assert.Equal(t, 2525, cfg.Mail.Port)
	assert.Equal(t, 10, cfg.Security.RateLimit)
	assert.Equal(t, 30*time.Minute, cfg.Security.RateLimitWindow)
	assert.Equal(t, "secret-token", cfg.Security.ConsentToken)
	assert.Equal(t, 500*time.Millisecond, cfg.Client.RetryDelay)
	assert.Equal(t, "en", cfg.Client.Language)
}
