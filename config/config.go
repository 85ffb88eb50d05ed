package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spineai/backend/utils"
)

// DevFrontendOrigin is always allowed by CORS so the local Next.js app works
const DevFrontendOrigin = "http://localhost:3000"

// Config represents the complete application configuration
type Config struct {
	ServiceName   string `validate:"required"`
	Environment   string `validate:"required"`
	Server        ServerConfig
	Supabase      SupabaseConfig
	CORS          CORSConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int           `validate:"gte=0,max=65535"`
	ReadTimeout     time.Duration `validate:"gte=0"`
	WriteTimeout    time.Duration `validate:"gte=0"`
	ShutdownTimeout time.Duration `validate:"gte=0"`
	// RequestTimeout bounds each request, including the identity provider call
	RequestTimeout time.Duration `validate:"gt=0"`
}

// SupabaseConfig holds identity provider configuration
type SupabaseConfig struct {
	URL            string `validate:"omitempty,url"`
	ServiceRoleKey string
	// JWTSecret enables the local signature/expiry precheck when set
	JWTSecret   string
	HTTPTimeout time.Duration `validate:"gte=0"`
}

// CORSConfig holds cross-origin configuration
type CORSConfig struct {
	FrontendURL string `validate:"required"`
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string `validate:"required"`
	LogFormat string `validate:"required,oneof=json console"` // json or console
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	// Load .env file if it exists (backend/.env when run from project root, .env when run from backend/)
	_ = godotenv.Load("backend/.env")
	_ = godotenv.Load(".env")

	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "Spine.AI"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 60*time.Second),
		},
		Supabase: SupabaseConfig{
			URL:            getEnv("SUPABASE_URL", ""),
			ServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
			JWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
			HTTPTimeout:    getEnvAsDuration("SUPABASE_HTTP_TIMEOUT", 0),
		},
		CORS: CORSConfig{
			FrontendURL: getEnv("FRONTEND_URL", DevFrontendOrigin),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}

	// Supabase validation (required in production)
	if c.IsProduction() {
		if c.Supabase.URL == "" {
			return fmt.Errorf("supabase URL is required in production")
		}
		if c.Supabase.ServiceRoleKey == "" {
			return fmt.Errorf("supabase service role key is required in production")
		}
	}

	if c.Supabase.URL != "" {
		u, err := url.Parse(c.Supabase.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("supabase URL must be absolute: %q", c.Supabase.URL)
		}
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

// IsConfigured reports whether tokens can be verified against Supabase
func (c *SupabaseConfig) IsConfigured() bool {
	return c.URL != "" && c.ServiceRoleKey != ""
}

// AllowedOrigins returns the CORS origins: the local dev frontend plus FRONTEND_URL
func (c *CORSConfig) AllowedOrigins() []string {
	origins := []string{DevFrontendOrigin}
	if c.FrontendURL != "" && c.FrontendURL != DevFrontendOrigin {
		origins = append(origins, c.FrontendURL)
	}
	return origins
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8000).
// Port 0 asks the kernel for a free port.
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8000
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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
