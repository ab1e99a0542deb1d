package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, "8080", cfg.Server.HTTPPort)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "data/db.json", cfg.Store.FileDBPath)
	assert.False(t, cfg.Store.UseFileDB)
	assert.Equal(t, 20, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("USE_FILE_DB", "true")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("LOW_STOCK_THRESHOLD", "5")
	t.Setenv("HTTP_READ_TIMEOUT", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("APP_ENV", "production")

	cfg := LoadEnv()

	assert.True(t, cfg.Store.UseFileDB)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSAllowedOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD", "many")
	t.Setenv("AUTH_ENABLED", "sometimes")

	cfg := LoadEnv()

	assert.Equal(t, 20, cfg.Inventory.LowStockThreshold)
	assert.False(t, cfg.Auth.Enabled)
}
