package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// App identifies which of the three applications a server process runs.
type App string

const (
	AppPortfolio App = "portfolio"
	AppBlog      App = "blog"
	AppAdmin     App = "admin"
)

// ValidApps lists the applications a server process can serve.
var ValidApps = []App{AppPortfolio, AppBlog, AppAdmin}

type Config struct {
	App            App
	Server         ServerConfig
	Database       DatabaseConfig
	Auth           AuthConfig
	RateLimit      RateLimitConfig
	Analytics      AnalyticsConfig
	Email          EmailConfig
	Logging        LoggingConfig
	Tracing        TracingConfig
	AdminBootstrap AdminBootstrapConfig
	Environment    string
}

type ServerConfig struct {
	Host    string
	Port    int
	BaseURL string
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
	MaxIdle        int
}

type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	Issuer       string
	Audience     string
	CSRFKey      string
	CookieSecure bool
}

type RateLimitConfig struct {
	LoginPerMinute  int
	PublicPerMinute int
}

type AnalyticsConfig struct {
	QueueSize int
	Workers   int
}

type EmailConfig struct {
	ResendAPIKey string
	From         string
	ContactTo    string
}

// Enabled reports whether outbound email is fully configured.
func (c EmailConfig) Enabled() bool {
	return c.ResendAPIKey != "" && c.From != "" && c.ContactTo != ""
}

type LoggingConfig struct {
	Level  string
	Format string
}

type TracingConfig struct {
	Enabled      bool
	Exporter     string
	ServiceName  string
	OTLPEndpoint string
	SampleRate   float64
}

type AdminBootstrapConfig struct {
	Email    string
	Name     string
	Password string
}

// Load reads configuration from environment variables. An optional YAML file
// (see LoadFile) can pre-populate values; env vars always win.
func Load() (Config, error) {
	environment := getEnv("ENVIRONMENT", "development")

	cfg := Config{
		App: App(getEnv("SITE_APP", string(AppPortfolio))),
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvInt("SERVER_PORT", 8080),
			BaseURL: getEnv("SERVER_BASE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConnections: getEnvInt("DATABASE_MAX_CONNECTIONS", 25),
			MaxIdle:        getEnvInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			TokenTTL:     time.Duration(getEnvInt("TOKEN_TTL_HOURS", 168)) * time.Hour,
			Issuer:       getEnv("JWT_ISSUER", "oornnery-site"),
			Audience:     getEnv("JWT_AUDIENCE", "oornnery-web"),
			CSRFKey:      getEnv("CSRF_KEY", ""),
			CookieSecure: environment == "production",
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute:  getEnvInt("RATE_LIMIT_LOGIN", 5),
			PublicPerMinute: getEnvInt("RATE_LIMIT_PUBLIC", 60),
		},
		Analytics: AnalyticsConfig{
			QueueSize: getEnvInt("PAGEVIEW_QUEUE_SIZE", 1024),
			Workers:   getEnvInt("PAGEVIEW_WORKERS", 2),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("EMAIL_FROM", ""),
			ContactTo:    getEnv("CONTACT_NOTIFY_TO", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Tracing: TracingConfig{
			Enabled:      getEnvBool("TRACING_ENABLED", false),
			Exporter:     getEnv("TRACING_EXPORTER", "stdout"),
			ServiceName:  getEnv("TRACING_SERVICE_NAME", "site"),
			OTLPEndpoint: getEnv("TRACING_OTLP_ENDPOINT", "localhost:4317"),
			SampleRate:   getEnvFloat("TRACING_SAMPLE_RATE", 0.1),
		},
		AdminBootstrap: AdminBootstrapConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Name:     getEnv("ADMIN_NAME", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		Environment: environment,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required settings and app selection.
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	valid := false
	for _, app := range ValidApps {
		if c.App == app {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("SITE_APP must be one of portfolio, blog, admin (got %q)", c.App)
	}
	return nil
}

// IsProduction reports whether the process runs with production hardening.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// IsDevelopment reports whether local-host allowances apply.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
