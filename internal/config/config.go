package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// AppConfig holds every runtime setting of the server
type AppConfig struct {
	Port                string
	DBConnStr           string
	LogLevel            string
	CORSAllowedOrigin   string
	DefaultExchangeRate decimal.Decimal
}

// Load reads configuration from a .env file (if present) and the OS
// environment, with sensible defaults for local runs.
func Load() *AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on OS environment variables and defaults")
	}

	dbConnStr := os.Getenv("DB_CONN_STR")
	if dbConnStr == "" {
		// Build it from individual vars (Docker friendly)
		dbConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "patrimonio"),
		)
	}

	defaultRateStr := getEnv("DEFAULT_EXCHANGE_RATE", "1000")
	defaultRate, err := decimal.NewFromString(defaultRateStr)
	if err != nil || defaultRate.LessThanOrEqual(decimal.Zero) {
		log.Printf("Invalid DEFAULT_EXCHANGE_RATE %q, using 1000", defaultRateStr)
		defaultRate = decimal.NewFromInt(1000)
	}

	return &AppConfig{
		Port:                getEnv("PORT", "8080"),
		DBConnStr:           dbConnStr,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigin:   getEnv("CORS_ALLOWED_ORIGIN", "*"),
		DefaultExchangeRate: defaultRate,
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
