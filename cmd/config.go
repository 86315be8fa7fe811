package cmd

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Environment variables read by rebal. A .env file in the working directory
// is loaded first, existing variables win.
const (
	EnvEODHDToken    = "EODHD_API_TOKEN"
	EnvCurrency      = "REBALANCE_CURRENCY"
	EnvPortfolioFile = "REBALANCE_PORTFOLIO_FILE"
	EnvLogLevel      = "REBALANCE_LOG_LEVEL"
	EnvAddr          = "REBALANCE_ADDR"
	EnvVerbose       = "REBALANCE_VERBOSE"
)

// Config holds application configuration
type Config struct {
	EODHDToken    string
	Currency      string
	PortfolioFile string
	LogLevel      string
	Addr          string
	Verbose       bool
}

// config is loaded once, on first use.
var config = sync.OnceValue(LoadConfig)

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	verbose, _ := strconv.ParseBool(os.Getenv(EnvVerbose))

	return &Config{
		EODHDToken:    os.Getenv(EnvEODHDToken),
		Currency:      getEnv(EnvCurrency, "USD"),
		PortfolioFile: getEnv(EnvPortfolioFile, "portfolio.json"),
		LogLevel:      getEnv(EnvLogLevel, "warn"),
		Addr:          getEnv(EnvAddr, ":8080"),
		Verbose:       verbose,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
