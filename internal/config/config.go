package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Database       DatabaseConfig       `yaml:"database"`
	Email          EmailConfig          `yaml:"email"`
	JWT            JWTConfig            `yaml:"jwt"`
	Redis          RedisConfig          `yaml:"redis"`
	Log            LogConfig            `yaml:"log"`
	Recommendation RecommendationConfig `yaml:"recommendation"`
	Scheduler      SchedulerConfig      `yaml:"scheduler"`
}

// ServerConfig contains the gRPC and public HTTP listener settings
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	HTTPPort int    `yaml:"http_port"`
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

// EmailConfig contains SendGrid delivery settings. With DryRun set messages are
// only logged.
type EmailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromAddress    string `yaml:"from_address"`
	FromName       string `yaml:"from_name"`
	DryRun         bool   `yaml:"dry_run"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// RedisConfig backs the rate limiter of the public recommendation endpoint.
// An empty URL falls back to an in-process limiter.
type RedisConfig struct {
	URL                  string `yaml:"url"`
	RecommendationLimit  int    `yaml:"recommendation_limit"`
	RecommendationWindow int    `yaml:"recommendation_window_seconds"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// RecommendationConfig contains recommender link settings
type RecommendationConfig struct {
	TokenBytes    int    `yaml:"token_bytes"`
	PublicBaseURL string `yaml:"public_base_url"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	MarkOverdueRecommendations  string `yaml:"mark_overdue_recommendations"`
	SendRecommendationReminders string `yaml:"send_recommendation_reminders"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes, applies environment overrides and
// validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

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

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.FromAddress = val
	}
	if val := os.Getenv("EMAIL_DRY_RUN"); val != "" {
		c.Email.DryRun = val == "true" || val == "1"
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Redis
	if val := os.Getenv("REDIS_URL"); val != "" {
		c.Redis.URL = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("HTTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.HTTPPort)
	}

	// Recommendation
	if val := os.Getenv("PUBLIC_BASE_URL"); val != "" {
		c.Recommendation.PublicBaseURL = val
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

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.HTTPPort < 0 || c.Server.HTTPPort > 65535 || c.Server.HTTPPort == c.Server.Port {
		return fmt.Errorf("invalid http port: %d", c.Server.HTTPPort)
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
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	// Email validation
	if c.Email.FromAddress == "" {
		return fmt.Errorf("email from address is required")
	}
	if c.Email.SendGridAPIKey == "" && !c.Email.DryRun {
		return fmt.Errorf("SendGrid API key is required unless email.dry_run is set")
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "Workbench"
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.RefreshTokenExpiry == 0 {
		c.JWT.RefreshTokenExpiry = 7 * 24 * 60
	}

	// Redis defaults
	if c.Redis.RecommendationLimit == 0 {
		c.Redis.RecommendationLimit = 30
	}
	if c.Redis.RecommendationWindow == 0 {
		c.Redis.RecommendationWindow = 60
	}

	// Recommendation validation
	if c.Recommendation.PublicBaseURL == "" {
		return fmt.Errorf("recommendation public base URL is required")
	}
	if !strings.HasPrefix(c.Recommendation.PublicBaseURL, "http://") && !strings.HasPrefix(c.Recommendation.PublicBaseURL, "https://") {
		return fmt.Errorf("recommendation public base URL must be http(s): %s", c.Recommendation.PublicBaseURL)
	}
	if c.Recommendation.TokenBytes == 0 {
		c.Recommendation.TokenBytes = 32
	}
	if c.Recommendation.TokenBytes < 16 {
		return fmt.Errorf("recommendation token must have at least 16 bytes, got %d", c.Recommendation.TokenBytes)
	}

	// Scheduler defaults
	if c.Scheduler.MarkOverdueRecommendations == "" {
		c.Scheduler.MarkOverdueRecommendations = "0 0 1 * * *" // 1 AM UTC
	}
	if c.Scheduler.SendRecommendationReminders == "" {
		c.Scheduler.SendRecommendationReminders = "0 0 9 * * *" // 9 AM UTC
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

// GetServerAddress returns the gRPC server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetHTTPAddress returns the public HTTP server address
func (c *Config) GetHTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}
