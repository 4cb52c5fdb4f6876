package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"catalog-sync-service/internal/clients/woocommerce"
)

// Config holds all configuration for the catalog sync service
type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string

	// Redis (document store backend)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Identity
	JWTSecret string

	// CORS
	AllowedOrigins []string

	// Fetch tuning
	CallTimeout      time.Duration
	PageDelay        time.Duration
	VariationTimeout time.Duration
	VariationBudget  time.Duration
	OrderWindowDays  int
}

// Load loads configuration from the environment, with a .env file picked
// up in development.
func Load() *Config {
	godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		JWTSecret: getEnv("JWT_SECRET", ""),

		AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		CallTimeout:      getEnvAsDuration("WC_CALL_TIMEOUT", 30*time.Second),
		PageDelay:        getEnvAsDuration("WC_PAGE_DELAY", 150*time.Millisecond),
		VariationTimeout: getEnvAsDuration("WC_VARIATION_TIMEOUT", 30*time.Second),
		VariationBudget:  getEnvAsDuration("WC_VARIATION_BUDGET", 5*time.Minute),
		OrderWindowDays:  getEnvAsInt("WC_ORDER_WINDOW_DAYS", 365),
	}
}

// ClientOptions builds the fetch options for the WooCommerce client
func (c *Config) ClientOptions() woocommerce.Options {
	return woocommerce.Options{
		CallTimeout:      c.CallTimeout,
		PageDelay:        c.PageDelay,
		VariationTimeout: c.VariationTimeout,
		VariationBudget:  c.VariationBudget,
		OrderWindow:      time.Duration(c.OrderWindowDays) * 24 * time.Hour,
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

// getEnvAsSlice gets a comma-separated environment variable as a slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
