package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"sudburyscout/carscout/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// PostgreSQL configuration
	DatabaseURL string

	// Read API configuration
	ListenAddr string

	// Scrape target configuration
	TargetURL      string
	SiteOrigin     string
	SeedClassHints []string
	StrictDedup    bool
	BatchFile      string

	// Fetch configuration
	UseBrowser     bool
	Headless       bool
	BrowserTimeout time.Duration
	FetchBlockTime time.Duration

	// Memcache configuration
	MemcacheAddr string

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	browserTimeout, _ := strconv.Atoi(getEnv("BROWSER_TIMEOUT_SECONDS", "60"))
	blockTime, _ := strconv.Atoi(getEnv("FETCH_BLOCK_SECONDS", "120"))

	return &Config{
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		ListenAddr:           getEnv("LISTEN_ADDR", ":8000"),
		TargetURL:            getEnv("TARGET_URL", "https://www.autotrader.ca/cars/on/greater-sudbury/"),
		SiteOrigin:           getEnv("SITE_ORIGIN", "https://www.autotrader.ca"),
		SeedClassHints:       splitList(getEnv("SEED_CLASS_HINTS", "result-item,listing-details,inner-div")),
		StrictDedup:          getEnv("STRICT_DEDUP", "false") == "true",
		BatchFile:            getEnv("BATCH_FILE", "cars.json"),
		UseBrowser:           getEnv("USE_BROWSER", "true") == "true",
		Headless:             getEnv("HEADLESS", "false") == "true",
		BrowserTimeout:       time.Duration(browserTimeout) * time.Second,
		FetchBlockTime:       time.Duration(blockTime) * time.Second,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "carscout"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		Environment:          getEnv("SCOUT_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values that would break a run
func (c *Config) Validate() error {
	if c.TargetURL == "" {
		return errors.NewConfiguration("TARGET_URL must not be empty", nil)
	}
	if c.SiteOrigin == "" {
		return errors.NewConfiguration("SITE_ORIGIN must not be empty", nil)
	}
	if len(c.SeedClassHints) == 0 {
		return errors.NewConfiguration("SEED_CLASS_HINTS must name at least one class fragment", nil)
	}
	if c.RedisStreamCount < 1 {
		return errors.NewConfiguration("REDIS_STREAM_COUNT must be at least 1", nil)
	}
	if c.BrowserTimeout <= 0 {
		return errors.NewConfiguration("BROWSER_TIMEOUT_SECONDS must be positive", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma separated env value, dropping empty entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
