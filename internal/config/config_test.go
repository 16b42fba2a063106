package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "4030", cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "nop", cfg.Compression)
	assert.Equal(t, 30*24*time.Hour, cfg.ArchiveRetention)
	assert.Equal(t, "@daily", cfg.ArchiveCleanSchedule)
	assert.Equal(t, 60*time.Second, cfg.GenerateTimeout)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadConfig_EnvOverlay(t *testing.T) {
	t.Setenv("SOPGOV_HTTP_PORT", "9000")
	t.Setenv("SOPGOV_COMPRESSION", "gzip")
	t.Setenv("SOPGOV_GENERATE_TIMEOUT", "15s")

	cfg := LoadConfig()
	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, "gzip", cfg.Compression)
	assert.Equal(t, 15*time.Second, cfg.GenerateTimeout)
}

func TestLoadConfig_RetentionHours(t *testing.T) {
	// plain numbers are hours
	t.Setenv("SOPGOV_ARCHIVE_RETENTION", "48")

	cfg := LoadConfig()
	assert.Equal(t, 48*time.Hour, cfg.ArchiveRetention)
}
