package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all runtime configuration, loaded once at startup
type Config struct {
	DatabaseURL    string
	Host           string
	Port           string
	AllowedOrigins string

	Telegram   TelegramConfig
	Affiliates AffiliateConfig
	Scraping   ScrapingConfig
	Offers     OfferConfig
	Discovery  DiscoveryConfig
	Retention  RetentionConfig

	// API rate limit in requests per second
	RateLimit float64
}

// TelegramConfig holds the notification channel credentials
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// AffiliateConfig holds per-store affiliate program identifiers
type AffiliateConfig struct {
	AmazonTag      string
	MercadoLibreID string
}

// ScrapingConfig controls scrape scheduling and pacing
type ScrapingConfig struct {
	IntervalML     int // minutes between Mercado Libre runs
	IntervalAmazon int // minutes between Amazon runs
	RequestDelay   time.Duration
	RequestTimeout time.Duration
}

// OfferConfig controls offer classification.
// ErrorThreshold is the discount percent above which a drop is flagged
// as a probable pricing error instead of a promotion. The 50% default
// is a heuristic carried over from production tuning.
type OfferConfig struct {
	ErrorThreshold     decimal.Decimal
	MinDiscountPercent decimal.Decimal
}

// DiscoveryConfig controls automatic product discovery
type DiscoveryConfig struct {
	MaxPerSearch int
	MinPrice     decimal.Decimal
}

// RetentionConfig controls the age-based cleanup sweep
type RetentionConfig struct {
	Days int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Host:           getEnv("HOST", "0.0.0.0"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
		},
		Affiliates: AffiliateConfig{
			AmazonTag:      os.Getenv("AMAZON_AFFILIATE_TAG"),
			MercadoLibreID: os.Getenv("ML_AFFILIATE_ID"),
		},
		Scraping: ScrapingConfig{
			IntervalML:     getEnvInt("SCRAPE_INTERVAL_ML", 5),
			IntervalAmazon: getEnvInt("SCRAPE_INTERVAL_AMAZON", 10),
			RequestDelay:   getEnvDuration("SCRAPE_REQUEST_DELAY", 2*time.Second),
			RequestTimeout: getEnvDuration("SCRAPE_REQUEST_TIMEOUT", 20*time.Second),
		},
		Offers: OfferConfig{
			ErrorThreshold:     getEnvDecimal("OFFER_ERROR_THRESHOLD", "50"),
			MinDiscountPercent: getEnvDecimal("MIN_DISCOUNT_PERCENT", "0"),
		},
		Discovery: DiscoveryConfig{
			MaxPerSearch: getEnvInt("DISCOVERY_MAX_PER_SEARCH", 3),
			MinPrice:     getEnvDecimal("DISCOVERY_MIN_PRICE", "100"),
		},
		Retention: RetentionConfig{
			Days: getEnvInt("RETENTION_DAYS", 30),
		},
		RateLimit: getEnvFloat("API_RATE_LIMIT", 10),
	}
}

// getEnv gets environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable or returns default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDecimal gets a decimal environment variable or returns default value
func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if parsed, err := decimal.NewFromString(value); err == nil {
			return parsed
		}
	}
	d, _ := decimal.NewFromString(defaultValue)
	return d
}
