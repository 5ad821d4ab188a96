package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	Addr            string
	PostgresURL     string
	KeyFile         string
	AssetsDir       string
	LogLevel        string
	LogDir          string
	SessionLifetime time.Duration
}

// Load reads .env files (missing ones are skipped) and then the environment.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Config{}, errors.Wrapf(err, "config: failed to load %s", f)
		}
	}

	cfg := Config{
		Addr:        getEnv("MAGMA_ADDR", ":3001"),
		PostgresURL: os.Getenv("POSTGRES_URL"),
		KeyFile:     getEnv("MAGMA_KEY_FILE", "magma.key"),
		AssetsDir:   getEnv("MAGMA_ASSETS_DIR", "web"),
		LogLevel:    getEnv("MAGMA_LOG_LEVEL", "info"),
		LogDir:      os.Getenv("MAGMA_LOG_DIR"),
	}

	lifetime, err := time.ParseDuration(getEnv("MAGMA_SESSION_LIFETIME", "12h"))
	if err != nil {
		return cfg, errors.Wrap(err, "config: MAGMA_SESSION_LIFETIME")
	}
	cfg.SessionLifetime = lifetime

	if cfg.PostgresURL == "" {
		return cfg, errors.New("config: POSTGRES_URL is not set")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}
