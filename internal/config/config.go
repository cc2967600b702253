package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kozaktomas/inspection-report/internal/constants"
)

type Config struct {
	Database       DatabaseConfig
	LegacyDatabase LegacyDatabaseConfig
	Storage        StorageConfig
	Report         ReportConfig
	Web            WebConfig
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type LegacyDatabaseConfig struct {
	URL string // MariaDB DSN of the legacy findings database (e.g., inspect:inspect@tcp(mariadb:3306)/inspect)
}

type StorageConfig struct {
	URL   string // base URL of the HTTP photo store (optional)
	Token string // bearer token for the HTTP photo store
	Dir   string // local photo directory, defaults to ./photos
}

type ReportConfig struct {
	Concurrency  int           // parallel image optimizations (default 5)
	FetchTimeout time.Duration // per-image fetch and optimize timeout (default 20s)
}

type WebConfig struct {
	Port           int
	Host           string
	AllowedOrigins []string
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envDuration reads a positive number of seconds from an environment variable.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	n := envInt(key, 0)
	if n == 0 {
		return defaultVal
	}
	return time.Duration(n) * time.Second
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList splits a comma-separated env var, dropping empty entries.
func envList(key string) []string {
	var out []string
	for part := range strings.SplitSeq(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func Load() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		LegacyDatabase: LegacyDatabaseConfig{
			URL: os.Getenv("LEGACY_DATABASE_URL"),
		},
		Storage: StorageConfig{
			URL:   os.Getenv("PHOTO_STORAGE_URL"),
			Token: os.Getenv("PHOTO_STORAGE_TOKEN"),
			Dir:   envString("PHOTO_STORAGE_DIR", constants.DefaultPhotoDir),
		},
		Report: ReportConfig{
			Concurrency:  envInt("REPORT_CONCURRENCY", constants.DefaultConcurrency),
			FetchTimeout: envDuration("REPORT_FETCH_TIMEOUT_SECONDS", constants.DefaultFetchTimeout),
		},
		Web: WebConfig{
			Port:           envInt("WEB_PORT", constants.DefaultWebPort),
			Host:           envString("WEB_HOST", constants.DefaultWebHost),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
	}
}
