package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Logging  LoggingConfig
	Backend  BackendConfig
	Quote    QuoteConfig
	Pricing  PricingConfig
	Refresh  RefreshConfig
	History  HistoryConfig
	Gemini   GeminiConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience

	// APIKey, when set, is required in X-API-Key on mutation endpoints.
	APIKey string
}

// DatabaseConfig holds the snapshot journal database configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
	File   string
}

// BackendConfig points at the REST API that owns goals and holdings.
type BackendConfig struct {
	BaseURL     string
	PortfolioID string
	Timeout     time.Duration
}

// QuoteConfig holds the market data provider settings.
// Token is resolved from FINNHUB_TOKEN, or decrypted from
// FINNHUB_TOKEN_ENCRYPTED with SECRET_KEY.
type QuoteConfig struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration // per lookup
	RateLimit   int           // requests per second
	Concurrency int           // parallel lookups per cycle
}

// PricingConfig holds the price resolution policy and the valuation buckets.
type PricingConfig struct {
	Policy            map[model.AssetType]model.PriceStrategy
	StaticPrices      map[string]float64
	AllocationClasses []model.AssetType
	Currency          string
}

// RefreshConfig holds the refresh scheduler settings.
type RefreshConfig struct {
	Interval     time.Duration
	CycleTimeout time.Duration
}

// HistoryConfig holds the snapshot journal retention settings.
type HistoryConfig struct {
	Retention     time.Duration
	PruneSchedule string
}

// GeminiConfig holds the optional AI recommendation settings.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	var err error
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),

			APIKey: os.Getenv("INTERNAL_API_KEY"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/dashboard.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost:5400",
				"http://localhost",
			}),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnv("LOG_PRETTY", "false") == "true",
			File:   getEnv("LOG_FILE", ""),
		},
		Backend: BackendConfig{
			BaseURL:     strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:5400/api"), "/"),
			PortfolioID: getEnv("PORTFOLIO_ID", "1"),
		},
		Quote: QuoteConfig{
			BaseURL: strings.TrimRight(getEnv("FINNHUB_URL", "https://finnhub.io/api/v1"), "/"),
		},
		Pricing: PricingConfig{
			Currency: getEnv("DISPLAY_CURRENCY", "USD"),
		},
		History: HistoryConfig{
			PruneSchedule: getEnv("HISTORY_PRUNE_SCHEDULE", "@daily"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
	}

	if config.Backend.Timeout, err = getEnvDuration("BACKEND_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if config.Quote.Timeout, err = getEnvDuration("QUOTE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if config.Quote.RateLimit, err = getEnvInt("QUOTE_RATE_LIMIT", 25); err != nil {
		return nil, err
	}
	if config.Quote.Concurrency, err = getEnvInt("QUOTE_CONCURRENCY", 8); err != nil {
		return nil, err
	}
	if config.Refresh.Interval, err = getEnvDuration("REFRESH_INTERVAL", 60*time.Second); err != nil {
		return nil, err
	}
	if config.Refresh.CycleTimeout, err = getEnvDuration("REFRESH_CYCLE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if config.History.Retention, err = getEnvDuration("HISTORY_RETENTION", 90*24*time.Hour); err != nil {
		return nil, err
	}

	if config.Quote.Token, err = resolveToken(
		os.Getenv("FINNHUB_TOKEN"),
		os.Getenv("FINNHUB_TOKEN_ENCRYPTED"),
		os.Getenv("SECRET_KEY"),
	); err != nil {
		return nil, err
	}

	if config.Pricing.Policy, err = parsePolicy(getEnv("PRICE_POLICY", "")); err != nil {
		return nil, err
	}
	if config.Pricing.StaticPrices, err = parseStaticPrices(getEnv("STATIC_PRICES", "")); err != nil {
		return nil, err
	}
	if config.Pricing.AllocationClasses, err = parseAssetTypes(getEnv("ALLOCATION_CLASSES", "STOCK,MUTUAL_FUND,GOLD")); err != nil {
		return nil, err
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return splitList(value)
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, value)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, value)
	}
	return d, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
