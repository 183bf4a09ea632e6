// Package config provides functionality for loading and accessing environment variables.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var (
	once      sync.Once
	loadedEnv string
)

// LoadEnv loads environment variables from a .env file in the current or
// parent directory, once per process. It returns the file that was loaded,
// or "" when none was found. Existing variables are never overridden.
func LoadEnv() string {
	once.Do(func() {
		loadedEnv = loadEnvFile()
	})
	return loadedEnv
}

func loadEnvFile() string {
	// Try to find .env file in current directory
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		// Try to find .env in parent directory (project root)
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return ""
		}
	}

	if err := godotenv.Load(envFile); err != nil {
		return ""
	}
	return envFile
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
