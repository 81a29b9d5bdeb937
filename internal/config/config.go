// Package config loads application settings from environment variables,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all configurable values for server and client.
type Config struct {
	Env  string `mapstructure:"env"`
	Addr string `mapstructure:"addr"`

	Mail     MailConfig     `mapstructure:"mail"`
	Security SecurityConfig `mapstructure:"security"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Client   ClientConfig   `mapstructure:"client"`
}

type MailConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	ToAddress   string `mapstructure:"to_address"`
	ToName      string `mapstructure:"to_name"`
}

type SecurityConfig struct {
	RateLimit       int           `mapstructure:"rate_limit"`
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window"`
	RateLimitDir    string        `mapstructure:"rate_limit_dir"`
	ConsentToken    string        `mapstructure:"consent_token"`
}

type AuditConfig struct {
	LogFile string `mapstructure:"log_file"`
}

// ClientConfig drives the client-side submission controller.
type ClientConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	RetryAttempts   int           `mapstructure:"retry_attempts"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"`
	AutosaveQuiet   time.Duration `mapstructure:"autosave_quiet"`
	MaxSubmissions  int           `mapstructure:"max_submissions"`
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window"`
	StateDir        string        `mapstructure:"state_dir"`
	Language        string        `mapstructure:"language"`
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in when present, as the deployed backend
// supported.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("env", "development")
	v.SetDefault("addr", ":8080")
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from_address", "noreply@bastianfluegel.de")
	v.SetDefault("mail.from_name", "Bastian Flügel Website")
	v.SetDefault("mail.to_address", "info@bfluegel.de")
	v.SetDefault("mail.to_name", "Bastian Flügel")
	v.SetDefault("security.rate_limit", 5)
	v.SetDefault("security.rate_limit_window", time.Hour)
	v.SetDefault("security.rate_limit_dir", "")
	v.SetDefault("security.consent_token", "")
	v.SetDefault("audit.log_file", "logs/contact_form.log")
	v.SetDefault("client.endpoint", "http://localhost:8080/contact")
	v.SetDefault("client.retry_attempts", 3)
	v.SetDefault("client.retry_delay", 2*time.Second)
	v.SetDefault("client.autosave_quiet", time.Second)
	v.SetDefault("client.max_submissions", 3)
	v.SetDefault("client.rate_limit_window", time.Hour)
	v.SetDefault("client.state_dir", "")
	v.SetDefault("client.language", "de")

	v.SetEnvPrefix("contact")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Missing .env is the normal case outside local development.
	if _, err := os.Stat(".env"); err == nil {
		if err := gotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
