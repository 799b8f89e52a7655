package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Backtest/internal/engine"
	"github.com/Alias1177/Backtest/internal/position"
)

// Config holds all application configuration
type Config struct {
	Symbol         string  // instrument symbol, e.g. GC=F
	FastWindow     int     // fast SMA window in bars
	SlowWindow     int     // slow SMA window in bars
	InitialCash    float64 // starting portfolio value
	CommissionRate float64 // fractional commission per leg notional
	CommissionLegs string  // entry | exit | both
	TwelveAPIKey   string
	OutputSize     int    // number of daily bars to request
	DataCSV        string // optional CSV file instead of the API
	ChartPath      string // optional SVG output path
	DatabaseURL    string // optional Postgres results store
	LogLevel       string
	RequestTimeout int // seconds
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{
		Symbol:         getEnvWithDefault("SYMBOL", "GC=F"),
		FastWindow:     getEnvIntWithDefault("FAST_WINDOW", 50),
		SlowWindow:     getEnvIntWithDefault("SLOW_WINDOW", 200),
		InitialCash:    getEnvFloatWithDefault("INITIAL_CASH", 100000),
		CommissionRate: getEnvFloatWithDefault("COMMISSION_RATE", 0),
		CommissionLegs: getEnvWithDefault("COMMISSION_LEGS", "both"),
		TwelveAPIKey:   os.Getenv("TWELVE_API_KEY"),
		OutputSize:     getEnvIntWithDefault("OUTPUT_SIZE", 2600),
		DataCSV:        os.Getenv("DATA_CSV"),
		ChartPath:      os.Getenv("CHART_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
		RequestTimeout: getEnvIntWithDefault("REQUEST_TIMEOUT", 30),
	}

	return cfg, nil
}

// EngineParams converts the configuration into validated backtest
// parameters. Invalid windows, cash or commission settings fail here,
// before any data is processed.
func (c *Config) EngineParams() (engine.Params, error) {
	legs, err := position.ParseCommissionLegs(c.CommissionLegs)
	if err != nil {
		return engine.Params{}, err
	}
	return engine.Params{
		Symbol:         c.Symbol,
		FastWindow:     c.FastWindow,
		SlowWindow:     c.SlowWindow,
		InitialCash:    c.InitialCash,
		CommissionRate: c.CommissionRate,
		CommissionLegs: legs,
	}, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
