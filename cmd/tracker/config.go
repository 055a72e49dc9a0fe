package main

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// config holds the settings of the command-line client.
type config struct {
	RemoteEnabled bool
	APIEndpoint   string
	APIToken      string
	HTTPTimeout   time.Duration
	DataDir       string
	LogLevel      string

	// Identity provider parameters, passed through to the token issuer.
	AuthRegion       string
	UserPoolID       string
	UserPoolClientID string
}

// defaultDataDir returns the per-user directory holding the local record store.
func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "gw-money-tracker")
	}
	return ".gw-money-tracker"
}

// parseConfig loads environment variables from a file and returns the client configuration.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	if cfg.RemoteEnabled, err = strconv.ParseBool(getEnv("TRACKER_REMOTE_ENABLED", "false")); err != nil {
		return
	}
	cfg.APIEndpoint = getEnv("TRACKER_API_ENDPOINT", "http://localhost:8080")
	cfg.APIToken = getEnv("TRACKER_API_TOKEN", "")
	var timeoutSecond int
	if timeoutSecond, err = strconv.Atoi(getEnv("TRACKER_HTTP_TIMEOUT_SECOND", "10")); err != nil {
		return
	}
	cfg.HTTPTimeout = time.Duration(timeoutSecond) * time.Second
	cfg.DataDir = getEnv("TRACKER_DATA_DIR", defaultDataDir())
	cfg.LogLevel = getEnv("TRACKER_LOG_LEVEL", "warn")

	cfg.AuthRegion = getEnv("TRACKER_AUTH_REGION", "")
	cfg.UserPoolID = getEnv("TRACKER_USER_POOL_ID", "")
	cfg.UserPoolClientID = getEnv("TRACKER_USER_POOL_CLIENT_ID", "")

	return
}
