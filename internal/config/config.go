package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/matching"
)

type Config struct {
	Address      string
	DBDriver     string
	DBDSN        string
	PolicyPath   string
	SeedPath     string
	MatchWorkers int
	MatchLimit   int
}

// LoadEnv reads .env from the working directory if there is one. Variables already set win.
func LoadEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load()
}

func Load() Config {
	return Config{
		Address:      GetEnv("API_ADDRESS", ":8080"),
		DBDriver:     GetEnv("DB_DRIVER", "sqlite3"),
		DBDSN:        GetEnv("DB_DSN", "data/deals.db"),
		PolicyPath:   GetEnv("POLICY_PATH", "configs/policy.json"),
		SeedPath:     GetEnv("SEED_PATH", ""),
		MatchWorkers: GetEnvInt("MATCH_WORKERS", 0),
		MatchLimit:   GetEnvInt("MATCH_LIMIT", 0),
	}
}

// Matching returns the engine settings. Without MATCH_WORKERS the engine defaults apply.
func (c Config) Matching() matching.Config {
	mc := matching.DefaultConfig()
	if c.MatchWorkers > 0 {
		mc.Workers = c.MatchWorkers
	}
	if c.MatchLimit > 0 {
		mc.Limit = c.MatchLimit
	}
	return mc
}

// GetEnv gets environment variable with default
func GetEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets integer environment variable with default
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}
