package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Auth      AuthConfig      `yaml:"auth"`
	Admin     AdminConfig     `yaml:"admin"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Environment string `yaml:"environment"` // "development" or "production"
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// SendGridConfig contains email delivery settings
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// AuthConfig contains magic-link and session settings
type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	BaseURL         string `yaml:"base_url"`          // public origin, e.g. https://auronintelligence.com
	SessionTTLHours int    `yaml:"session_ttl_hours"` // end-user session cookie lifetime
	LinkTTLHours    int    `yaml:"link_ttl_hours"`    // magic-link validity window
	DefaultNext     string `yaml:"default_next"`      // post-login destination fallback
}

// AdminConfig contains the shared-secret admin session settings
type AdminConfig struct {
	APIKey          string `yaml:"api_key"`
	SessionTTLHours int    `yaml:"session_ttl_hours"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings for the cronjob binary
type SchedulerConfig struct {
	PurgeLoginTokens string `yaml:"purge_login_tokens"`
	PendingDigest    string `yaml:"pending_digest"`
	DigestRecipient  string `yaml:"digest_recipient"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.SendGrid.FromEmail = val
	}
	if val := os.Getenv("EMAIL_FROM_NAME"); val != "" {
		c.SendGrid.FromName = val
	}

	// Auth
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.Auth.JWTSecret = val
	}
	if val := os.Getenv("APP_BASE_URL"); val != "" {
		c.Auth.BaseURL = val
	}

	// Admin
	if val := os.Getenv("ADMIN_API_KEY"); val != "" {
		c.Admin.APIKey = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("APP_ENV"); val != "" {
		c.Server.Environment = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// SendGrid validation
	if c.SendGrid.APIKey == "" {
		return fmt.Errorf("SendGrid API key is required")
	}
	if c.SendGrid.FromEmail == "" {
		c.SendGrid.FromEmail = "no-reply@auronintelligence.com"
	}
	if c.SendGrid.FromName == "" {
		c.SendGrid.FromName = "Auron Intelligence"
	}

	// Auth validation
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth JWT secret is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth JWT secret must be at least 32 characters")
	}
	if c.Auth.BaseURL == "" {
		c.Auth.BaseURL = "http://localhost:8080"
	}
	if c.Auth.SessionTTLHours == 0 {
		c.Auth.SessionTTLHours = 720 // 30 days
	}
	if c.Auth.LinkTTLHours == 0 {
		c.Auth.LinkTTLHours = 24
	}
	if c.Auth.DefaultNext == "" {
		c.Auth.DefaultNext = "/walkthrough"
	}

	// Admin validation
	if c.Admin.APIKey == "" {
		return fmt.Errorf("admin API key is required")
	}
	if c.Admin.SessionTTLHours == 0 {
		c.Admin.SessionTTLHours = 8
	}

	// Scheduler defaults
	if c.Scheduler.PurgeLoginTokens == "" {
		c.Scheduler.PurgeLoginTokens = "0 15 * * * *" // hourly at :15 UTC
	}
	if c.Scheduler.PendingDigest == "" {
		c.Scheduler.PendingDigest = "0 0 13 * * *" // 1 PM UTC daily
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsProduction reports whether cookies should be issued with the Secure
// attribute.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
