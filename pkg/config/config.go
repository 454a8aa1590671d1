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

// Config holds all configuration options for the TikTok scraper
type Config struct {
	// TikTok request settings
	TikTok TikTokConfig `yaml:"tiktok" json:"tiktok"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Retry behavior for transient failures
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Scrape history (resume) settings
	History HistoryConfig `yaml:"history" json:"history"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TikTokConfig holds TikTok-specific request configuration
type TikTokConfig struct {
	BaseURL       string `yaml:"base_url" json:"base_url"`
	WebURL        string `yaml:"web_url" json:"web_url"`
	UserAgent     string `yaml:"user_agent" json:"user_agent"`
	Proxy         string `yaml:"proxy" json:"proxy"`
	SessionCookie string `yaml:"session_cookie" json:"session_cookie"`
}

// RateLimitConfig holds request throttling configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int `yaml:"burst_size" json:"burst_size"`
}

// RetryConfig holds retry configuration for media downloads
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay" json:"max_delay"`
	Multiplier  float64       `yaml:"multiplier" json:"multiplier"`
}

// DownloadConfig holds media download settings
type DownloadConfig struct {
	Concurrency     int           `yaml:"concurrency" json:"concurrency"`
	DownloadTimeout time.Duration `yaml:"download_timeout" json:"download_timeout"`
}

// OutputConfig holds artifact output settings
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory"`
	MediaSubdir   string `yaml:"media_subdir" json:"media_subdir"`
}

// HistoryConfig holds cursor persistence settings
type HistoryConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		TikTok: TikTokConfig{
			BaseURL:   "https://m.tiktok.com",
			WebURL:    "https://www.tiktok.com",
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			BurstSize:         10,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			MaxDelay:    30 * time.Second,
			Multiplier:  2.0,
		},
		Download: DownloadConfig{
			Concurrency:     5,
			DownloadTimeout: 30 * time.Second,
		},
		Output: OutputConfig{
			BaseDirectory: ".",
			MediaSubdir:   "media",
		},
		History: HistoryConfig{
			Directory: "", // resolved to the platform data dir when empty
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if userAgent := os.Getenv("TOKSCRAPER_USER_AGENT"); userAgent != "" {
		c.TikTok.UserAgent = userAgent
	}
	if proxy := os.Getenv("TOKSCRAPER_PROXY"); proxy != "" {
		c.TikTok.Proxy = proxy
	}
	if cookie := os.Getenv("TOKSCRAPER_SESSION_COOKIE"); cookie != "" {
		c.TikTok.SessionCookie = cookie
	}

	if rpm := os.Getenv("TOKSCRAPER_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	if concurrent := os.Getenv("TOKSCRAPER_CONCURRENCY"); concurrent != "" {
		var val int
		fmt.Sscanf(concurrent, "%d", &val)
		if val > 0 {
			c.Download.Concurrency = val
		}
	}

	if outputDir := os.Getenv("TOKSCRAPER_OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}

	if historyDir := os.Getenv("TOKSCRAPER_HISTORY_DIR"); historyDir != "" {
		c.History.Directory = historyDir
	}

	if logLevel := os.Getenv("TOKSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
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
	locations := []string{
		".tokscraper.yaml",
		".tokscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "tokscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "tokscraper", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".tokscraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.TikTok.BaseURL == "" {
		errs = append(errs, errors.New("TikTok base URL is required"))
	}
	if c.TikTok.WebURL == "" {
		errs = append(errs, errors.New("TikTok web URL is required"))
	}
	if c.TikTok.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.RateLimit.BurstSize <= 0 {
		errs = append(errs, errors.New("burst size must be positive"))
	}

	if c.Retry.MaxAttempts < 0 {
		errs = append(errs, errors.New("max retry attempts cannot be negative"))
	}

	if c.Download.Concurrency < 1 {
		errs = append(errs, errors.New("download concurrency must be at least 1"))
	}
	if c.Download.DownloadTimeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if userAgent, ok := flags["user-agent"].(string); ok && userAgent != "" {
		c.TikTok.UserAgent = userAgent
	}
	if proxy, ok := flags["proxy"].(string); ok && proxy != "" {
		c.TikTok.Proxy = proxy
	}
	if cookie, ok := flags["session-cookie"].(string); ok && cookie != "" {
		c.TikTok.SessionCookie = cookie
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if concurrent, ok := flags["concurrency"].(int); ok && concurrent > 0 {
		c.Download.Concurrency = concurrent
	}
	if timeout, ok := flags["timeout"].(int); ok && timeout > 0 {
		c.Download.DownloadTimeout = time.Duration(timeout) * time.Second
	}
	if rpm, ok := flags["requests-per-minute"].(int); ok && rpm > 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".tokscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
