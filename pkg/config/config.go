package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the call-log tool
type Config struct {
	// RingCentral API settings
	API APIConfig `yaml:"api" json:"api"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Retry behavior
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds RingCentral API settings. ServerURL is optional and
// overrides the server stored with the credentials.
type APIConfig struct {
	ServerURL      string `yaml:"server_url" json:"server_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	PerPage        int    `yaml:"per_page" json:"per_page"`
}

// Timeout returns the per-request timeout
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// RateLimitConfig holds the sliding-window admission settings
type RateLimitConfig struct {
	RequestsPerWindow int `yaml:"requests_per_window" json:"requests_per_window"`
	WindowSeconds     int `yaml:"window_seconds" json:"window_seconds"`
}

// Window returns the admission window duration
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// RetryConfig holds retry behavior for failed requests
type RetryConfig struct {
	MaxRetries           int `yaml:"max_retries" json:"max_retries"`
	RateLimitWaitSeconds int `yaml:"rate_limit_wait_seconds" json:"rate_limit_wait_seconds"`
	BackoffBaseSeconds   int `yaml:"backoff_base_seconds" json:"backoff_base_seconds"`
	BackoffCapSeconds    int `yaml:"backoff_cap_seconds" json:"backoff_cap_seconds"`
}

// RateLimitWait returns the fallback wait after a 429 without a
// Retry-After header
func (r RetryConfig) RateLimitWait() time.Duration {
	return time.Duration(r.RateLimitWaitSeconds) * time.Second
}

// BackoffBase returns the first transient-failure delay
func (r RetryConfig) BackoffBase() time.Duration {
	return time.Duration(r.BackoffBaseSeconds) * time.Second
}

// BackoffCap returns the transient-failure delay ceiling
func (r RetryConfig) BackoffCap() time.Duration {
	return time.Duration(r.BackoffCapSeconds) * time.Second
}

// OutputConfig holds output preferences
type OutputConfig struct {
	AuditLog      string `yaml:"audit_log" json:"audit_log"`
	Color         bool   `yaml:"color" json:"color"`
	Notifications bool   `yaml:"notifications" json:"notifications"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			ServerURL:      "",
			TimeoutSeconds: 30,
			PerPage:        100,
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: 10,
			WindowSeconds:     60,
		},
		Retry: RetryConfig{
			MaxRetries:           3,
			RateLimitWaitSeconds: 60,
			BackoffBaseSeconds:   2,
			BackoffCapSeconds:    30,
		},
		Output: OutputConfig{
			AuditLog:      "deleted_call_logs.log",
			Color:         true,
			Notifications: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if server := os.Getenv("RCLOGS_SERVER"); server != "" {
		c.API.ServerURL = server
	}
	if timeout := os.Getenv("RCLOGS_TIMEOUT_SECONDS"); timeout != "" {
		var val int
		fmt.Sscanf(timeout, "%d", &val)
		if val > 0 {
			c.API.TimeoutSeconds = val
		}
	}
	if perPage := os.Getenv("RCLOGS_PER_PAGE"); perPage != "" {
		var val int
		fmt.Sscanf(perPage, "%d", &val)
		if val > 0 {
			c.API.PerPage = val
		}
	}

	// Rate limiting
	if rpw := os.Getenv("RCLOGS_REQUESTS_PER_WINDOW"); rpw != "" {
		var val int
		fmt.Sscanf(rpw, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerWindow = val
		}
	}
	if window := os.Getenv("RCLOGS_WINDOW_SECONDS"); window != "" {
		var val int
		fmt.Sscanf(window, "%d", &val)
		if val > 0 {
			c.RateLimit.WindowSeconds = val
		}
	}

	// Retries; zero is a meaningful max_retries value
	if retries := os.Getenv("RCLOGS_MAX_RETRIES"); retries != "" {
		var val int
		if _, err := fmt.Sscanf(retries, "%d", &val); err == nil && val >= 0 {
			c.Retry.MaxRetries = val
		}
	}
	if wait := os.Getenv("RCLOGS_RATE_LIMIT_WAIT_SECONDS"); wait != "" {
		var val int
		fmt.Sscanf(wait, "%d", &val)
		if val > 0 {
			c.Retry.RateLimitWaitSeconds = val
		}
	}

	// Output
	if auditLog := os.Getenv("RCLOGS_AUDIT_LOG"); auditLog != "" {
		c.Output.AuditLog = auditLog
	}
	if color := os.Getenv("RCLOGS_COLOR"); color != "" {
		c.Output.Color = strings.ToLower(color) == "true"
	}
	if notify := os.Getenv("RCLOGS_NOTIFICATIONS"); notify != "" {
		c.Output.Notifications = strings.ToLower(notify) == "true"
	}

	// Logging
	if logLevel := os.Getenv("RCLOGS_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat := os.Getenv("RCLOGS_LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}
	if logFile := os.Getenv("RCLOGS_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		"rclogs.yaml",
		"rclogs.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "rclogs", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "rclogs", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".rclogs.yaml"),
		filepath.Join(os.Getenv("HOME"), ".rclogs.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// DefaultConfigPath returns where `config init` writes the config file
func DefaultConfigPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "rclogs", "config.yaml")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Validate API settings
	if c.API.ServerURL != "" && !strings.HasPrefix(c.API.ServerURL, "http://") && !strings.HasPrefix(c.API.ServerURL, "https://") {
		errs = append(errs, errors.New("server URL must start with http:// or https://"))
	}
	if c.API.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.API.PerPage < 1 || c.API.PerPage > 1000 {
		errs = append(errs, errors.New("per page must be between 1 and 1000"))
	}

	// Validate rate limiting
	if c.RateLimit.RequestsPerWindow <= 0 {
		errs = append(errs, errors.New("requests per window must be positive"))
	}
	if c.RateLimit.WindowSeconds <= 0 {
		errs = append(errs, errors.New("window seconds must be positive"))
	}

	// Validate retries
	if c.Retry.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}
	if c.Retry.RateLimitWaitSeconds <= 0 {
		errs = append(errs, errors.New("rate limit wait must be positive"))
	}
	if c.Retry.BackoffBaseSeconds <= 0 {
		errs = append(errs, errors.New("backoff base must be positive"))
	}
	if c.Retry.BackoffCapSeconds < c.Retry.BackoffBaseSeconds {
		errs = append(errs, errors.New("backoff cap must be at least the backoff base"))
	}

	// Validate output settings
	if c.Output.AuditLog == "" {
		errs = append(errs, errors.New("audit log path is required"))
	}

	// Validate logging
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}
	validLogFormats := map[string]bool{
		"console": true, "json": true,
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, errors.New("invalid log format"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Keys match the cobra flag names.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if server, ok := flags["server"].(string); ok && server != "" {
		c.API.ServerURL = server
	}
	if perPage, ok := flags["per_page"].(int); ok && perPage > 0 {
		c.API.PerPage = perPage
	}
	if auditLog, ok := flags["audit-log"].(string); ok && auditLog != "" {
		c.Output.AuditLog = auditLog
	}
	if noColor, ok := flags["no-color"].(bool); ok && noColor {
		c.Output.Color = false
	}
	if notify, ok := flags["notify"].(bool); ok && notify {
		c.Output.Notifications = true
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat, ok := flags["log-format"].(string); ok && logFormat != "" {
		c.Logging.Format = logFormat
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".rclogs.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
