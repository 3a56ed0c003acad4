package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "STORAGE_BACKEND", "KAFKA_BROKERS", "STATUSCACHE_WORKERS", "ANALYTICS_TZ", "POSTGRES_MAX_CONNS"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, ":8081", c.HTTPAddr)
	assert.Equal(t, BackendFile, c.StorageBackend)
	assert.False(t, c.EventsEnabled())
	assert.Equal(t, 4, c.StatusCacheWorkers)
	assert.Equal(t, 4, c.PostgresMaxConns)
	assert.Equal(t, "Europe/Berlin", c.AnalyticsTZ)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Postgres")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("STATUSCACHE_WORKERS", "-3")
	t.Setenv("POSTGRES_MAX_CONNS", "10")
	c := Load()
	assert.Equal(t, 10, c.PostgresMaxConns)
	assert.Equal(t, BackendPostgres, c.StorageBackend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokers)
	assert.True(t, c.EventsEnabled())
	assert.Equal(t, 4, c.StatusCacheWorkers, "invalid values fall back")
}

func TestLocation_Fallback(t *testing.T) {
	c := Config{AnalyticsTZ: "Nowhere/Special"}
	loc := c.Location()
	assert.Equal(t, "CET", loc.String())

	c.AnalyticsTZ = "UTC"
	assert.Equal(t, "UTC", c.Location().String())
}

func TestLoadPaymentDetails(t *testing.T) {
	got, err := LoadPaymentDetails("")
	require.NoError(t, err)
	assert.Empty(t, got)

	path := filepath.Join(t.TempDir(), "details.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ffin: \"USDT TRC20: Tabc\"\nsup2: \"PayPal: a@b.c\"\n"), 0o600))
	got, err = LoadPaymentDetails(path)
	require.NoError(t, err)
	assert.Equal(t, "USDT TRC20: Tabc", got["ffin"])
	assert.Len(t, got, 2)

	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))
	_, err = LoadPaymentDetails(path)
	assert.Error(t, err)

	_, err = LoadPaymentDetails(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
