package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/invoicing_app/internal/platform/config"
)

func TestLoadConfigMemoryDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("TAX_RATE_CACHE_TTL", "90s")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, config.StorageMemory, cfg.StorageDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Equal(t, 90*time.Second, cfg.TaxRateCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.SeedAccounts)
	assert.False(t, cfg.SeedTaxAccount)
}

func TestLoadConfigRejectsMissingDatabaseURL(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("PGSQL_URL", "")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigBadTTLFallsBack(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("TAX_RATE_CACHE_TTL", "soon")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.TaxRateCacheTTL)
}

func TestLoadConfigProductionNeedsSecret(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AUTH_DISABLED", "false")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}
