package config

import "os"

// GetEnv reads an environment variable. Loading of the .env file happens
// once at startup via godotenv in main.
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvDefault reads an environment variable with a fallback value.
func GetEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
