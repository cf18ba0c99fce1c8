package config

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", TINKeySize)))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TAXFILING_TIN_KEY", testKey())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 30*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, 30*time.Second, cfg.DB.StatementTimeout)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Equal(t, 5*time.Minute, cfg.Cache.StatsTTL)
	assert.Equal(t, "filing-exports", cfg.S3.ExportPrefix)
	assert.False(t, cfg.S3.Enabled())
	assert.Len(t, cfg.TIN.Key, TINKeySize)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TAXFILING_TIN_KEY", testKey())
	t.Setenv("TAXFILING_DB_HOST", "db.internal")
	t.Setenv("TAXFILING_DB_STATEMENT_TIMEOUT", "2m")
	t.Setenv("TAXFILING_S3_BUCKET", "exports")
	t.Setenv("TAXFILING_S3_EXPORT_PREFIX", "/irs/")
	t.Setenv("TAXFILING_REDIS_ADDR", "redis:6379")
	t.Setenv("TAXFILING_PAYER_NAME", "Acme Inc")
	t.Setenv("TAXFILING_SERVER_CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 2*time.Minute, cfg.DB.StatementTimeout)
	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, "irs", cfg.S3.ExportPrefix)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "Acme Inc", cfg.Payer.Name)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSOrigins)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("TAXFILING_TIN_KEY", testKey())
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_TINKeyRequired(t *testing.T) {
	t.Setenv("TAXFILING_TIN_KEY", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingTINKey)
}

func TestLoad_TINKeyMalformed(t *testing.T) {
	t.Setenv("TAXFILING_TIN_KEY", base64.StdEncoding.EncodeToString([]byte("short")))

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidTINKey)
}

func TestDSN(t *testing.T) {
	d := DBConfig{User: "u", Password: "p", Host: "h", Port: 1, Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:1/n?sslmode=disable", d.DSN())
}
