package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
)

// AppName is the application name used for data directories.
const AppName = "calendario-store"

// Config holds all application configuration
type Config struct {
	// DataDir is the directory holding the durable blob store.
	DataDir string

	// ScratchDir is the directory for the engine's working database file.
	ScratchDir string

	// InMemory keeps the blob store in memory, losing it on exit. Useful for
	// tests and throwaway runs.
	InMemory bool

	// DurablePersist makes mutating calls fail when the image write fails,
	// instead of the optimistic log-and-continue default.
	DurablePersist bool

	// Logging configuration
	LogLevel string
}

// Load reads configuration from environment variables. Everything has a
// default; nothing is required.
func Load() *Config {
	dataDir := getEnv("DATA_DIR", filepath.Join(xdg.DataHome, AppName))

	return &Config{
		DataDir:        dataDir,
		ScratchDir:     getEnv("SCRATCH_DIR", filepath.Join(dataDir, "scratch")),
		InMemory:       getEnvBool("IN_MEMORY", false),
		DurablePersist: getEnv("PERSIST_MODE", "optimistic") == "durable",
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
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
