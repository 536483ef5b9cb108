package config_test

import (
	"testing"
	"time"

	"wbparser/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 他の環境変数の影響を受けないように空にしておく
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_URL", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_SSLMODE", "JWT_SECRET",
		"WB_SEARCH_URL", "WB_CATALOG_BASE_URL", "FETCH_TIMEOUT", "DEFAULT_LIMIT",
		"GO_ENV", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5432, cfg.PostgresPort)
	assert.Equal(t, "https://www.wildberries.ru", cfg.CatalogBaseURL)
	assert.Equal(t, "", cfg.SearchURL)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 10, cfg.DefaultLimit)
	assert.Equal(t, "", cfg.JWTSecret)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=wbparser sslmode=disable", cfg.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x?sslmode=require")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("DEFAULT_LIMIT", "25")
	t.Setenv("GO_ENV", "prod")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "postgres://u:p@db:5432/x?sslmode=require", cfg.DSN())
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 25, cfg.DefaultLimit)
	assert.False(t, cfg.IsDev())
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"POSTGRES_PORT": "abc",
		"FETCH_TIMEOUT": "soon",
		"DEFAULT_LIMIT": "0",
	}

	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
