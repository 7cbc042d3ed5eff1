package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the scanner.
// SSOT: every environment variable is read here and nowhere else.
type Config struct {
	Env string // development, staging, production

	Scan  ScanConfig
	Paths PathsConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// ScanConfig holds the pipeline parameters that used to live as
// module-level constants in earlier revisions of the scanner.
type ScanConfig struct {
	// Concurrency bounds how many codes are fetched per batch. Batches
	// are strictly sequential, so this is also the peak number of codes
	// with outstanding requests at any moment.
	Concurrency int

	// PremiumThreshold is the discount cutoff in percent. A reading
	// qualifies when its premium is strictly below this (more negative).
	PremiumThreshold float64

	// MinVolume is the liquidity floor, in 万元 of traded value.
	// Zero disables the floor.
	MinVolume float64

	// FetchTimeout bounds each upstream request. The original scanner had
	// no timeout at all, so a hung request stalled its batch forever.
	FetchTimeout time.Duration

	// RequestsPerSecond throttles outbound requests across both upstreams.
	// Zero disables throttling.
	RequestsPerSecond float64
}

// PathsConfig holds input and output file locations.
type PathsConfig struct {
	CodesFile string // instrument code list, one 6-digit code per line
	DataDir   string // ledger and report artifacts live here

	LedgerFile   string
	SnapshotFile string
	AlertFile    string
	ProfitFile   string
}

// LedgerPath returns the full path of the persisted ledger.
func (p PathsConfig) LedgerPath() string {
	return filepath.Join(p.DataDir, p.LedgerFile)
}

// Load reads configuration from environment variables.
// SSOT: this is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		Scan: ScanConfig{
			Concurrency:       getEnvAsInt("SCAN_CONCURRENCY", 30),
			PremiumThreshold:  getEnvAsFloat("SCAN_PREMIUM_THRESHOLD", -1.3),
			MinVolume:         getEnvAsFloat("SCAN_MIN_VOLUME", 2000),
			FetchTimeout:      getEnvAsDuration("SCAN_FETCH_TIMEOUT", "15s"),
			RequestsPerSecond: getEnvAsFloat("SCAN_REQUESTS_PER_SECOND", 0),
		},

		Paths: PathsConfig{
			CodesFile:    getEnv("CODES_FILE", "etf.txt"),
			DataDir:      getEnv("DATA_DIR", "data"),
			LedgerFile:   getEnv("LEDGER_FILE", "portfolio.json"),
			SnapshotFile: getEnv("SNAPSHOT_FILE", "all_valid_data.csv"),
			AlertFile:    getEnv("ALERT_FILE", "high_premium_alert.csv"),
			ProfitFile:   getEnv("PROFIT_FILE", "profit_tracker.csv"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are sane.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Scan.Concurrency < 1 {
		return fmt.Errorf("SCAN_CONCURRENCY must be at least 1")
	}

	if c.Scan.FetchTimeout <= 0 {
		return fmt.Errorf("SCAN_FETCH_TIMEOUT must be positive")
	}

	if c.Paths.CodesFile == "" {
		return fmt.Errorf("CODES_FILE is required")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
