package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/storefront/internal/storefront/service"
	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

type Config struct {
	APIURL string // Backend base URL (default: http://localhost:8080)

	StoreDriver   string        // Session store: sqlite, memory, redis (default: sqlite)
	DatabaseFile  string        // SQLite file for the sqlite driver (default: ./storefront.db)
	RedisAddr     string        // Redis address for the redis driver (default: localhost:6379)
	RedisPassword string        // Optional
	RedisDB       int           // Redis database number (default: 0)
	RedisTTL      time.Duration // Lifetime of session keys in Redis, 0 keeps them (default: 0)
	SealKey       string        // Optional locally, required in prod: key material for sealing the session at rest

	Locale          string        // Message language, en or vi (default: en)
	LoginPath       string        // Route of the login page (default: /login)
	RedirectDelay   time.Duration // Pause before redirecting after a forced logout (default: 1.5s)
	MonitorInterval time.Duration // Auth monitor period (default: 30s)

	HTTPTimeout time.Duration         // Per request timeout (default: 10s)
	RateLimit   httpx.RateLimitConfig // RATELIMIT_CLIENT_* (default: 600/min, burst 20)

	OAuthClientID    string // Client id sent on social login (default: storefront-cli)
	OAuthRedirectURL string // Redirect URL registered with the backend

	MetricsAddr string // Address for the watch command's /metrics endpoint, empty disables it

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: text)
}

// LoadConfig reads the environment after loading an optional .env file from
// the working directory.
func LoadConfig() Config {
	// A missing .env file is normal, the environment alone is enough.
	_ = godotenv.Load()

	return Config{
		APIURL: getEnvOrDefault("STOREFRONT_API_URL", "http://localhost:8080"),

		StoreDriver:   strings.ToLower(getEnvOrDefault("STOREFRONT_STORE_DRIVER", DriverSQLite)),
		DatabaseFile:  getEnvOrDefault("STOREFRONT_DATABASE_FILE", "storefront.db"),
		RedisAddr:     getEnvOrDefault("STOREFRONT_REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("STOREFRONT_REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("STOREFRONT_REDIS_DB", 0),
		RedisTTL:      getEnvDurationOrDefault("STOREFRONT_REDIS_TTL", 0),
		SealKey:       os.Getenv("STOREFRONT_SEAL_KEY"),

		Locale:          getEnvOrDefault("STOREFRONT_LOCALE", "en"),
		LoginPath:       getEnvOrDefault("STOREFRONT_LOGIN_PATH", service.DefaultLoginPath),
		RedirectDelay:   getEnvDurationOrDefault("STOREFRONT_REDIRECT_DELAY", service.DefaultRedirectDelay),
		MonitorInterval: getEnvDurationOrDefault("STOREFRONT_MONITOR_INTERVAL", service.DefaultMonitorInterval),

		HTTPTimeout: getEnvDurationOrDefault("STOREFRONT_HTTP_TIMEOUT", 10*time.Second),
		RateLimit:   httpx.ParseRateLimitFromEnv("CLIENT", httpx.DefaultLimit),

		OAuthClientID:    getEnvOrDefault("STOREFRONT_OAUTH_CLIENT_ID", "storefront-cli"),
		OAuthRedirectURL: getEnvOrDefault("STOREFRONT_OAUTH_REDIRECT_URL", "http://localhost:3000/oauth2/redirect"),

		MetricsAddr: os.Getenv("METRICS_ADDR"),

		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

// Validate rejects settings the application cannot start with.
func (c Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("STOREFRONT_API_URL must be an absolute URL, got %q", c.APIURL))
	}

	switch c.StoreDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("STOREFRONT_DATABASE_FILE is required for the sqlite driver"))
		}
	case DriverMemory:
	case DriverRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("STOREFRONT_REDIS_ADDR is required for the redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STOREFRONT_STORE_DRIVER %q", c.StoreDriver))
	}

	if !strings.HasPrefix(c.LoginPath, "/") {
		errs = append(errs, fmt.Errorf("STOREFRONT_LOGIN_PATH must start with /, got %q", c.LoginPath))
	}

	// Production keeps the token sealed on disk.
	if c.IsProduction() && len(c.SealKey) < 32 {
		errs = append(errs, errors.New("STOREFRONT_SEAL_KEY must be at least 32 characters in prod"))
	}

	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// "1h", "30m", "90s"
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
