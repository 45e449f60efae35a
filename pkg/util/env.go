package util

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dockerapp/dockerapp/pkg/util/console"
)

// GetEnvOrDefault returns an environment variable or a default if either the environment variable
// does not exist or fails to parse using the specified conversionFunc function
func GetEnvOrDefault[T any](key string, defaultVal T, conversionFunc func(string) (T, error)) T {
	val, exists := os.LookupEnv(key)
	if exists {
		v, err := conversionFunc(val)
		if err == nil {
			return v
		}
		console.Warnf("Failed to convert env var %s to expected type. Continuing with default. Error: %v", key, err)
	}
	return defaultVal
}

// ParseSeconds converts a whole number of seconds, as used in config files and
// environment variables, into a duration. Zero means no limit.
func ParseSeconds(s string) (time.Duration, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%d seconds is negative", n)
	}
	return time.Duration(n) * time.Second, nil
}

func ParseString(s string) (string, error) {
	return s, nil
}
