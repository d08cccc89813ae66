package util

import "os"

// Getenv will return an environment variable or a default value
func Getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val != "" {
		return val
	}

	return defaultValue
}

// SetEnv sets an environment variable and returns a function that restores
// the variable to its previous value (or unsets it if it was not set)
func SetEnv(key, value string) func() {
	prev, found := os.LookupEnv(key)
	os.Setenv(key, value)
	return func() {
		if found {
			os.Setenv(key, prev)
			return
		}

		os.Unsetenv(key)
	}
}
