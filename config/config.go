package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Upstream      UpstreamConfig
	SessionDB     *DatabaseConfig // Optional: when nil, sessions live in memory.
	Auth          AuthConfig
	Routes        RoutesConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// UpstreamConfig holds the Taita CMS API configuration
type UpstreamConfig struct {
	BaseURL             string
	Timeout             time.Duration
	TenantLookupTimeout time.Duration
}

// AuthConfig holds session token and login configuration
type AuthConfig struct {
	SessionSecret  string
	SessionTTL     time.Duration
	CookieName     string
	CookieSecure   bool
	CaptchaEnabled bool
	CaptchaTTL     time.Duration
}

// RoutesConfig points at an optional route table file. When File is empty
// the built-in table is used.
type RoutesConfig struct {
	File string
}

// DatabaseConfig holds PostgreSQL session store configuration.
// When ConnectionString (from SESSION_DATABASE_URL) is set, it takes
// precedence over individual fields.
type DatabaseConfig struct {
	ConnectionString string
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or text
}

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env if present (no-op otherwise)
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8085),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Upstream: UpstreamConfig{
			BaseURL:             getEnv("UPSTREAM_API_URL", "http://localhost:3001"),
			Timeout:             getEnvAsDuration("UPSTREAM_TIMEOUT", 10*time.Second),
			TenantLookupTimeout: getEnvAsDuration("TENANT_LOOKUP_TIMEOUT", 5*time.Second),
		},
		SessionDB: loadSessionDatabaseConfig(),
		Auth: AuthConfig{
			SessionSecret:  getEnv("SESSION_SECRET", ""),
			SessionTTL:     getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
			CookieName:     getEnv("SESSION_COOKIE_NAME", "taita_session"),
			CookieSecure:   getEnvAsBool("SESSION_COOKIE_SECURE", false),
			CaptchaEnabled: getEnvAsBool("CAPTCHA_ENABLED", false),
			CaptchaTTL:     getEnvAsDuration("CAPTCHA_TTL", 5*time.Minute),
		},
		Routes: RoutesConfig{
			File: getEnv("ROUTES_FILE", ""),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream API URL is required")
	}
	if _, err := url.Parse(c.Upstream.BaseURL); err != nil {
		return fmt.Errorf("invalid upstream API URL: %w", err)
	}

	if c.Auth.SessionSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("session secret is required in production")
		}
		// Development fallback keeps local runs friction-free.
		c.Auth.SessionSecret = "taita-dev-session-secret"
	}

	if c.SessionDB != nil {
		if c.SessionDB.ConnectionString == "" && c.SessionDB.User == "" {
			return fmt.Errorf("session database user is required")
		}
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// DSN returns the PostgreSQL connection string.
// Uses ConnectionString (from SESSION_DATABASE_URL) when set; otherwise
// builds from individual fields.
func (c *DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password)
func (c *DatabaseConfig) LogString() string {
	if c.ConnectionString != "" {
		u, err := url.Parse(c.ConnectionString)
		if err == nil {
			host := u.Hostname()
			port := u.Port()
			if port == "" {
				port = "5432"
			}
			db := strings.TrimPrefix(u.Path, "/")
			return fmt.Sprintf("host=%s port=%s database=%s", host, port, db)
		}
		return "host=<from SESSION_DATABASE_URL>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

// loadSessionDatabaseConfig loads the session store config. Returns nil when
// neither SESSION_DATABASE_URL nor SESSION_DB_HOST is set (in-memory mode).
func loadSessionDatabaseConfig() *DatabaseConfig {
	dbURL := getEnv("SESSION_DATABASE_URL", "")
	if dbURL != "" {
		return &DatabaseConfig{
			ConnectionString: dbURL,
			MaxOpenConns:     getEnvAsInt("SESSION_DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:     getEnvAsInt("SESSION_DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:  getEnvAsDuration("SESSION_DB_CONN_MAX_LIFETIME", 5*time.Minute),
		}
	}
	host := getEnv("SESSION_DB_HOST", "")
	if host == "" {
		return nil
	}
	return &DatabaseConfig{
		Host:            host,
		Port:            getEnvAsInt("SESSION_DB_PORT", 5432),
		User:            getEnv("SESSION_DB_USER", "taita"),
		Password:        getEnv("SESSION_DB_PASSWORD", ""),
		Database:        getEnv("SESSION_DB_NAME", "taita_sessions"),
		SSLMode:         getEnv("SESSION_DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvAsInt("SESSION_DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("SESSION_DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvAsDuration("SESSION_DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
