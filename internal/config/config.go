package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// NHL API
	NHLBaseURL string        `envconfig:"NHL_BASE_URL" default:"https://api-web.nhle.com/v1"`
	NHLTimeout time.Duration `envconfig:"NHL_TIMEOUT" default:"3s"`
	PlayerID   string        `envconfig:"PLAYER_ID" default:"8471214"`
	TeamAbbrev string        `envconfig:"TEAM_ABBREV" default:"WSH"`

	// Season
	SeasonEndDate string `envconfig:"SEASON_END_DATE" default:"2025-04-17"`

	// Stats cache
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"1h"`

	// Redis (optional shared cache; the in-memory cache is used when disabled)
	RedisEnabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Email configuration parameters live in SSM under this path
	ParameterPath string `envconfig:"PARAMETER_PATH" default:"/ovechkin-tracker/"`

	// Website publishing
	WebsiteBucket    string `envconfig:"WEBSITE_BUCKET" default:""`
	WebsiteStackName string `envconfig:"WEBSITE_STACK_NAME" default:"static-website"`
	CloudFrontDistID string `envconfig:"CLOUDFRONT_DISTRIBUTION_ID" default:""`
	WebsiteStaticDir string `envconfig:"WEBSITE_STATIC_DIR" default:""`

	// Worker
	NightlyRefreshCron string        `envconfig:"NIGHTLY_REFRESH_CRON" default:"0 2 * * *"`
	StatsRefreshEvery  time.Duration `envconfig:"STATS_REFRESH_EVERY" default:"1h"`
	PublishOnRefresh   bool          `envconfig:"PUBLISH_ON_REFRESH" default:"false"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.PlayerID == "" {
		return fmt.Errorf("PLAYER_ID is required")
	}

	if c.TeamAbbrev == "" {
		return fmt.Errorf("TEAM_ABBREV is required")
	}

	if _, err := time.Parse("2006-01-02", c.SeasonEndDate); err != nil {
		return fmt.Errorf("SEASON_END_DATE must be YYYY-MM-DD: %w", err)
	}

	return nil
}

// SeasonEnd returns the parsed season end date.
func (c *Config) SeasonEnd() time.Time {
	end, _ := time.Parse("2006-01-02", c.SeasonEndDate)
	return end
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
