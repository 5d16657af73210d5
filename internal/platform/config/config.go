package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backend identifiers for STORE_BACKEND.
const (
	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"
	StoreBackendRedis    = "redis"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// StoreBackend selects where ledger documents live: memory, postgres or
	// redis.
	StoreBackend string
	DatabaseURL  string
	RedisAddr    string
	RedisPass    string
	RedisDB      int

	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string

	CalendarName     string
	CalendarTimezone string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORE_BACKEND", StoreBackendMemory)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CALENDAR_NAME", "HutangKu - Pengingat Jatuh Tempo")
	viper.SetDefault("CALENDAR_TIMEZONE", "Asia/Jakarta")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:             viper.GetString("PORT"),
		IsProduction:     viper.GetBool("IS_PRODUCTION"),
		StoreBackend:     viper.GetString("STORE_BACKEND"),
		DatabaseURL:      viper.GetString("PGSQL_URL"),
		RedisAddr:        viper.GetString("REDIS_ADDR"),
		RedisPass:        viper.GetString("REDIS_PASSWORD"),
		RedisDB:          viper.GetInt("REDIS_DB"),
		RateLimit:        viper.GetString("RATE_LIMIT"),
		CalendarName:     viper.GetString("CALENDAR_NAME"),
		CalendarTimezone: viper.GetString("CALENDAR_TIMEZONE"),
	}

	switch cfg.StoreBackend {
	case StoreBackendMemory:
		log.Println("Warning: STORE_BACKEND is memory; ledgers will not survive a restart.")
	case StoreBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when STORE_BACKEND is %s", StoreBackendPostgres)
		}
	case StoreBackendRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR must be set when STORE_BACKEND is %s", StoreBackendRedis)
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q (expected %s, %s or %s)",
			cfg.StoreBackend, StoreBackendMemory, StoreBackendPostgres, StoreBackendRedis)
	}

	return cfg, nil
}
