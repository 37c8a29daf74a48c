package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ScenariosDir string
	TargetsDir   string
	RunsDBPath   string
	LogLevel     string
	BatchSize    int
	DefaultMode  string
}

// Load reads .env from the working directory when present; variables
// already set in the environment take precedence.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ScenariosDir: getEnv("COURSEGEN_SCENARIOS_DIR", "./scenarios"),
		TargetsDir:   getEnv("COURSEGEN_TARGETS_DIR", "./targets"),
		RunsDBPath:   getEnv("COURSEGEN_RUNS_DB", "./coursegen-runs.sqlite"),
		LogLevel:     getEnv("COURSEGEN_LOG_LEVEL", "info"),
		BatchSize:    getEnvInt("COURSEGEN_BATCH_SIZE", 500),
		DefaultMode:  getEnv("COURSEGEN_DEFAULT_MODE", "recreate"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}
