// Package environment provides support for env vars: loading .env files,
// namespaced lookups, and filling config structs from struct tags.
package environment

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from a .env file. With an empty path it
// falls back to .env in the current directory. A missing file is not fatal for
// local development; callers decide how to treat the error.
func LoadEnv(p string) error {
	if p != "" {
		return godotenv.Load(p)
	}
	return godotenv.Load()
}

// GetEnvOrDefault retrieves an environment variable value, returning a
// fallback value if the variable is not set.
//
// Example:
//
//	port := GetEnvOrDefault("PORT", "8080")
func GetEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvKeyPrefix constructs a namespaced environment variable key by joining
// a prefix with the key name using an underscore. With no prefix the key is
// returned unchanged.
//
// Example:
//
//	key := GetEnvKeyPrefix("TASKDECK", "PORT")
//	// Returns: "TASKDECK_PORT"
func GetEnvKeyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", prefix, key)
}

// GetPrefixEnvOrDefault retrieves a namespaced environment variable value,
// returning a fallback value if the variable is not set.
func GetPrefixEnvOrDefault(prefix, key, fallback string) string {
	return GetEnvOrDefault(GetEnvKeyPrefix(prefix, key), fallback)
}

// GetPrefixEnv retrieves the value of a namespaced environment variable,
// returning an empty string if it is not set.
func GetPrefixEnv(prefix, key string) string {
	return os.Getenv(GetEnvKeyPrefix(prefix, key))
}
