package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// WooCommerce REST API
	StoreURL       string
	ConsumerKey    string
	ConsumerSecret string

	// WordPress media library (application password auth)
	WPUsername    string
	WPAppPassword string

	// Category fallback when resolution fails or the cell is empty
	DefaultCategoryID int

	// Optional AI assistance
	OpenAIAPIKey string

	// Optional upload history store (sqlite://path or postgres URL)
	DatabaseURL string

	// Status server
	APIHost string
	APIPort string

	// Upload behaviour
	Concurrency    int
	RequestTimeout time.Duration

	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	cfg := &Config{
		StoreURL:          strings.TrimRight(getEnv("STORE_URL", ""), "/"),
		ConsumerKey:       getEnv("WC_CONSUMER_KEY", ""),
		ConsumerSecret:    getEnv("WC_CONSUMER_SECRET", ""),
		WPUsername:        getEnv("WP_USERNAME", ""),
		WPAppPassword:     getEnv("WP_APP_PASSWORD", ""),
		DefaultCategoryID: getEnvAsInt("DEFAULT_CATEGORY_ID", 0),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		APIHost:           getEnv("API_HOST", "127.0.0.1"),
		APIPort:           getEnv("API_PORT", "8080"),
		Concurrency:       getEnvAsInt("UPLOAD_CONCURRENCY", 1),
		RequestTimeout:    getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
		Env:               getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	return cfg, nil
}

// ValidateStore reports the configuration gaps that make any WooCommerce
// call impossible. Checked before processing starts, not lazily per request.
func (c *Config) ValidateStore() error {
	var missing []string
	if c.StoreURL == "" {
		missing = append(missing, "STORE_URL")
	}
	if c.ConsumerKey == "" {
		missing = append(missing, "WC_CONSUMER_KEY")
	}
	if c.ConsumerSecret == "" {
		missing = append(missing, "WC_CONSUMER_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateMedia checks the credentials needed for image uploads.
func (c *Config) ValidateMedia() error {
	if c.WPUsername == "" || c.WPAppPassword == "" {
		return fmt.Errorf("missing required configuration: WP_USERNAME, WP_APP_PASSWORD")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
