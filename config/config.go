package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	PageSpeed PageSpeedConfig
	Google    GoogleConfig
	SMTP      SMTPConfig
	Auth      AuthConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Reports   ReportsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	BaseURL        string   `mapstructure:"base_url"`
}

// DatabaseConfig holds the sqlite database location
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// PageSpeedConfig holds Google PageSpeed Insights API configuration
type PageSpeedConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// GoogleConfig holds OAuth client configuration shared by the
// sign-in flow and the Search Console connection flow
type GoogleConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// SMTPConfig holds outgoing mail configuration for OTP delivery
type SMTPConfig struct {
	Server   string `mapstructure:"server"`
	Port     int    `mapstructure:"port"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	FromName string `mapstructure:"from_name"`
}

// AuthConfig holds session and OTP lifetimes
type AuthConfig struct {
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	OTPTTL     time.Duration `mapstructure:"otp_ttl"`
	PendingTTL time.Duration `mapstructure:"pending_ttl"`
}

// CacheConfig holds TTLs for the in-memory state cache
type CacheConfig struct {
	PageSpeedTTL time.Duration `mapstructure:"pagespeed_ttl"`
	StateTTL     time.Duration `mapstructure:"state_ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// ReportsConfig holds PDF report storage configuration
type ReportsConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/seooptima/")

	// Environment variable settings
	v.SetEnvPrefix("SEOPTIMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.base_url", "http://localhost:8080")

	// Database defaults
	v.SetDefault("database.path", "seooptima.db")

	// PageSpeed defaults
	v.SetDefault("pagespeed.base_url", "https://www.googleapis.com/pagespeedonline/v5")

	// SMTP defaults
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from_name", "SEO Optima")

	// Auth defaults
	v.SetDefault("auth.session_ttl", "168h") // 7 days
	v.SetDefault("auth.otp_ttl", "10m")
	v.SetDefault("auth.pending_ttl", "30m")

	// Cache defaults
	v.SetDefault("cache.pagespeed_ttl", "15m")
	v.SetDefault("cache.state_ttl", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Reports defaults
	v.SetDefault("reports.dir", "reports")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.PageSpeed.APIKey == "" {
		return fmt.Errorf("PageSpeed API key is required (set SEOPTIMA_PAGESPEED_API_KEY)")
	}

	if config.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}

	if config.Auth.SessionTTL <= 0 || config.Auth.OTPTTL <= 0 {
		return fmt.Errorf("auth TTLs must be positive")
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit.per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
