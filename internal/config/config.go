// Package config reads simulator configuration from environment variables,
// optionally seeded from a .env file.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds simulator configuration
type Config struct {
	LogLevel     string // zerolog level name
	LogPretty    bool   // console writer instead of JSON lines
	ScriptPath   string // JSONL command script; "-" or empty reads stdin
	SnapshotPath string // initial snapshot JSON; empty uses the bootstrap default
	PrintState   bool   // print the final snapshot to stdout
}

// Load reads configuration from environment variables
func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogPretty:    getEnvAsBool("LOG_PRETTY", false),
		ScriptPath:   getEnv("SCRIPT_PATH", "-"),
		SnapshotPath: getEnv("SNAPSHOT_PATH", ""),
		PrintState:   getEnvAsBool("PRINT_STATE", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
