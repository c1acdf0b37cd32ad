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
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Tenant   TenantConfig
	Payment  PaymentConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// TenantConfig controls how the restaurant id is pulled out of a request.
// DefaultID is used by single-restaurant deployments; zero means unset.
type TenantConfig struct {
	HeaderName string
	QueryParam string
	PathParam  string
	DefaultID  int64
	CacheTTL   time.Duration
}

type PaymentConfig struct {
	StripeSecretKey string
	Currency        string
	ProviderTimeout time.Duration
}

type WorkerConfig struct {
	Concurrency int
	// MetricsAddr serves /metrics for the worker; empty disables it.
	MetricsAddr string
}

func Load() (*Config, error) {
	// .env is optional and only used for local development
	_ = godotenv.Load()

	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	burst, err := getEnvInt("RATE_LIMIT_BURST", 200)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	rps, err := getEnvFloat("RATE_LIMIT_RPS", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	tokenTTL, err := getEnvDuration("JWT_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	cacheTTL, err := getEnvDuration("RESTAURANT_CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid RESTAURANT_CACHE_TTL: %w", err)
	}

	providerTimeout, err := getEnvDuration("PAYMENT_PROVIDER_TIMEOUT", 8*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid PAYMENT_PROVIDER_TIMEOUT: %w", err)
	}

	concurrency, err := getEnvInt("WORKER_CONCURRENCY", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY: %w", err)
	}

	var defaultTenant int64
	if v := os.Getenv("DEFAULT_RESTAURANT_ID"); v != "" {
		defaultTenant, err = strconv.ParseInt(v, 10, 64)
		if err != nil || defaultTenant <= 0 {
			return nil, fmt.Errorf("invalid DEFAULT_RESTAURANT_ID %q", v)
		}
	}

	cfg := &Config{
		Env: getEnv("APP_ENV", "production"),
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           port,
			AllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ","),
			RateLimitRPS:   rps,
			RateLimitBurst: burst,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  tokenTTL,
		},
		Tenant: TenantConfig{
			HeaderName: getEnv("RESTAURANT_HEADER", "X-Restaurant-ID"),
			QueryParam: getEnv("RESTAURANT_QUERY_PARAM", "restaurantId"),
			PathParam:  getEnv("RESTAURANT_PATH_PARAM", "restaurantId"),
			DefaultID:  defaultTenant,
			CacheTTL:   cacheTTL,
		},
		Payment: PaymentConfig{
			StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
			Currency:        strings.ToLower(getEnv("PAYMENT_CURRENCY", "eur")),
			ProviderTimeout: providerTimeout,
		},
		Worker: WorkerConfig{
			Concurrency: concurrency,
			MetricsAddr: getEnv("WORKER_METRICS_ADDR", ":9091"),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Development reports whether error responses may carry diagnostic details.
func (c *Config) Development() bool {
	switch strings.ToLower(c.Env) {
	case "development", "dev", "local", "test":
		return true
	}
	return false
}

func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}
