package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Matching engine policy
	Engine EngineConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// EngineConfig holds matching policy constants. The weights and caps are
// product policy with no derivation behind them; they are surfaced as
// configuration so product owners can tune them without a release.
type EngineConfig struct {
	// Scoring weights
	TrustWeight    float64 // score contribution per trust point
	YieldWeight    float64 // score contribution per yield percent
	TypeMatchBonus float64 // flat bonus when property type matches mandate

	// Scoring defaults for absent candidate fields
	DefaultTrustScore float64
	DefaultYieldPct   float64

	// Mandate resolution defaults
	DefaultYieldTargetPct float64

	// Assembly caps and thresholds
	MaxRecommended         int
	MaxCounterfactuals     int
	MaxReasons             int
	MinCounterfactualScore float64
	MaxViolationCodes      int

	// Portfolio risk
	AreaConcentrationLimit int

	// Signal matcher
	SignalScanFloor  int // minimum page size when over-scanning for unmapped signals
	UpsertRatePerSec int // signal target upsert batches per second (0 = unlimited)
	BundleCacheTTL   time.Duration
	MatchRateLimit   int           // per-org matcher triggers allowed per window
	MatchRateWindow  time.Duration // window for MatchRateLimit
}

// Load reads configuration from environment variables
// ⭐ SSOT: only this function calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8091"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// Engine policy
		Engine: EngineConfig{
			TrustWeight:            getEnvAsFloat("ENGINE_TRUST_WEIGHT", 0.55),
			YieldWeight:            getEnvAsFloat("ENGINE_YIELD_WEIGHT", 3.5),
			TypeMatchBonus:         getEnvAsFloat("ENGINE_TYPE_MATCH_BONUS", 10),
			DefaultTrustScore:      getEnvAsFloat("ENGINE_DEFAULT_TRUST", 60),
			DefaultYieldPct:        getEnvAsFloat("ENGINE_DEFAULT_YIELD", 7),
			DefaultYieldTargetPct:  getEnvAsFloat("ENGINE_DEFAULT_YIELD_TARGET", 8.0),
			MaxRecommended:         getEnvAsInt("ENGINE_MAX_RECOMMENDED", 6),
			MaxCounterfactuals:     getEnvAsInt("ENGINE_MAX_COUNTERFACTUALS", 10),
			MaxReasons:             getEnvAsInt("ENGINE_MAX_REASONS", 3),
			MinCounterfactualScore: getEnvAsFloat("ENGINE_MIN_CF_SCORE", 50),
			MaxViolationCodes:      getEnvAsInt("ENGINE_MAX_CF_VIOLATIONS", 2),
			AreaConcentrationLimit: getEnvAsInt("ENGINE_AREA_CONCENTRATION_LIMIT", 2),
			SignalScanFloor:        getEnvAsInt("ENGINE_SIGNAL_SCAN_FLOOR", 200),
			UpsertRatePerSec:       getEnvAsInt("ENGINE_UPSERT_RATE_PER_SEC", 20),
			BundleCacheTTL:         getEnvAsDuration("ENGINE_BUNDLE_CACHE_TTL", "5m"),
			MatchRateLimit:         getEnvAsInt("ENGINE_MATCH_RATE_LIMIT", 10),
			MatchRateWindow:        getEnvAsDuration("ENGINE_MATCH_RATE_WINDOW", "1m"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Engine.MaxRecommended <= 0 || c.Engine.MaxCounterfactuals <= 0 {
		return fmt.Errorf("engine caps must be positive")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
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
