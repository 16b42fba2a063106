// Package config loads runtime settings from the environment. A .env file in
// the working directory is picked up automatically.
package config

import (
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Config holds runtime settings for the sopgov server.
type Config struct {
	// HTTPPort is the port the JSON API listens on.
	HTTPPort string
	// DBDriver selects the database: "sqlite" or "postgres".
	DBDriver string
	// DBDSN is the database path (sqlite) or DSN (postgres).
	DBDSN string
	// Compression selects the snapshot codec: nop, gzip, lz4 or brotli.
	Compression string
	// RedisAddr enables the snapshot cache when non-empty.
	RedisAddr string
	// KafkaBrokers enables audit event publishing when non-empty.
	KafkaBrokers string
	// ArchiveRetention is how long soft-deleted documents are kept before the
	// cleaner erases them. Version history is kept either way.
	ArchiveRetention time.Duration
	// ArchiveCleanSchedule is the cron spec for the archive cleaner.
	ArchiveCleanSchedule string
	// GenerateTimeout bounds a single generation backend call.
	GenerateTimeout time.Duration
}

// LoadConfig builds a Config from defaults overlaid with environment
// variables.
func LoadConfig() *Config {
	cfg := &Config{
		HTTPPort:             "4030",
		DBDriver:             "sqlite",
		DBDSN:                ".db/sopgov.db",
		Compression:          "nop",
		ArchiveRetention:     30 * 24 * time.Hour,
		ArchiveCleanSchedule: "@daily",
		GenerateTimeout:      60 * time.Second,
	}

	overlay(&cfg.HTTPPort, "SOPGOV_HTTP_PORT")
	overlay(&cfg.DBDriver, "SOPGOV_DB_DRIVER")
	overlay(&cfg.DBDSN, "SOPGOV_DB_DSN")
	overlay(&cfg.Compression, "SOPGOV_COMPRESSION")
	overlay(&cfg.RedisAddr, "SOPGOV_REDIS_ADDR")
	overlay(&cfg.KafkaBrokers, "SOPGOV_KAFKA_BROKERS")
	overlay(&cfg.ArchiveCleanSchedule, "SOPGOV_ARCHIVE_CLEAN_SCHEDULE")
	overlayDuration(&cfg.ArchiveRetention, "SOPGOV_ARCHIVE_RETENTION")
	overlayDuration(&cfg.GenerateTimeout, "SOPGOV_GENERATE_TIMEOUT")

	return cfg
}

func overlay(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func overlayDuration(target *time.Duration, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}

	if d, err := time.ParseDuration(v); err == nil {
		*target = d
		return
	}
	// plain numbers are hours
	if h, err := strconv.Atoi(v); err == nil {
		*target = time.Duration(h) * time.Hour
	}
}
