package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the bot
type Config struct {
	Reddit    RedditConfig
	LinkedIn  LinkedInConfig
	Storage   StorageConfig
	Scheduler SchedulerConfig
	Dashboard DashboardConfig
}

// RedditConfig selects and configures the forum collector
type RedditConfig struct {
	Mode         string // "api", "public", "mock"
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string
	Subreddit    string
	FetchLimit   int
	Window       time.Duration
}

// LinkedInConfig holds the OAuth client and publishing API settings
type LinkedInConfig struct {
	ClientID        string `validate:"required"`
	ClientSecret    string `validate:"required"`
	RedirectURI     string `validate:"required,url|eq=oob"`
	Scope           string `validate:"required"`
	AccessToken     string
	RefreshToken    string
	PersonURN       string
	AuthURL         string `validate:"required,url"`
	TokenURL        string `validate:"required,url"`
	APIBaseURL      string `validate:"required,url"`
	CallbackTimeout time.Duration
}

// StorageConfig holds the flat-file locations
type StorageConfig struct {
	CollectionPath string
	HistoryPath    string
	EnvFile        string // where new tokens are persisted
}

// SchedulerConfig holds the publish cadence
type SchedulerConfig struct {
	Interval time.Duration
}

// DashboardConfig holds the optional chart server settings
type DashboardConfig struct {
	Port string // empty disables the dashboard during schedule
}

// Load reads the .env file (if any) and builds the configuration from
// environment variables with defaults.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{
		Reddit: RedditConfig{
			Mode:         getEnv("COLLECTOR_MODE", "api"),
			ClientID:     getEnv("REDDIT_CLIENT_ID", ""),
			ClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
			Username:     getEnv("REDDIT_USERNAME", ""),
			Password:     getEnv("REDDIT_PASSWORD", ""),
			UserAgent:    getEnv("REDDIT_USER_AGENT", ""),
			Subreddit:    getEnv("REDDIT_SUBREDDIT", "technews"),
			FetchLimit:   getEnvInt("REDDIT_FETCH_LIMIT", 100),
			Window:       getEnvDuration("REDDIT_WINDOW", 24*time.Hour),
		},
		LinkedIn: LinkedInConfig{
			ClientID:        getEnv("LINKEDIN_CLIENT_ID", ""),
			ClientSecret:    getEnv("LINKEDIN_CLIENT_SECRET", ""),
			RedirectURI:     getEnv("LINKEDIN_REDIRECT_URI", "http://localhost:8080/callback"),
			Scope:           getEnv("LINKEDIN_SCOPE", "openid profile w_member_social"),
			AccessToken:     getEnv("LINKEDIN_ACCESS_TOKEN", ""),
			RefreshToken:    getEnv("LINKEDIN_REFRESH_TOKEN", ""),
			PersonURN:       getEnv("LINKEDIN_PERSON_URN", ""),
			AuthURL:         getEnv("LINKEDIN_AUTH_URL", "https://www.linkedin.com/oauth/v2/authorization"),
			TokenURL:        getEnv("LINKEDIN_TOKEN_URL", "https://www.linkedin.com/oauth/v2/accessToken"),
			APIBaseURL:      getEnv("LINKEDIN_API_URL", "https://api.linkedin.com"),
			CallbackTimeout: getEnvDuration("LINKEDIN_CALLBACK_TIMEOUT", 300*time.Second),
		},
		Storage: StorageConfig{
			CollectionPath: getEnv("POSTS_FILE", "data/technews_posts.json"),
			HistoryPath:    getEnv("HISTORY_FILE", "data/posted_history.json"),
			EnvFile:        envFile,
		},
		Scheduler: SchedulerConfig{
			Interval: getEnvDuration("POST_INTERVAL", 3*time.Hour),
		},
		Dashboard: DashboardConfig{
			Port: getEnv("DASHBOARD_PORT", ""),
		},
	}

	return cfg, nil
}

// Validate checks the settings the OAuth flow cannot run without.
func (c LinkedInConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid LinkedIn configuration: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt and getEnvDuration only accept positive values; anything else
// falls back to the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}
