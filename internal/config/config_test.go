package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memora/internal/config"
	"memora/pkg/logger"
)

func TestLoad(t *testing.T) {
	err := logger.InitGlobalLoggerWithLevel(logger.Development, "info")
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("Загрузка конфигурации из окружения", func(t *testing.T) {
		envVars := map[string]string{
			"MEMORA_POSTGRES_HOST":      "testhost",
			"MEMORA_POSTGRES_PORT":      "5555",
			"MEMORA_POSTGRES_USER":      "testuser",
			"MEMORA_POSTGRES_PASSWORD":  "testpass",
			"MEMORA_POSTGRES_DB":        "testdb",
			"MEMORA_HTTP_PORT":          "9090",
			"MEMORA_LOGGER_LEVEL":       "debug",
			"MEMORA_LOGGER_MODE":        "production",
			"MEMORA_FILES_MIN_SIZE_BYTES": "200",
			"MEMORA_FILES_MAX_SIZE_BYTES": "1048576",
			"MEMORA_JWT_ACCESS_TOKEN_TTL": "30m",
		}
		for k, v := range envVars {
			t.Setenv(k, v)
		}

		cfg, err := config.Load(ctx)

		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "testhost", cfg.Postgres.Host)
		assert.Equal(t, 5555, cfg.Postgres.Port)
		assert.Equal(t, 9090, cfg.HTTP.Port)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, logger.Production, cfg.Logging.GetEnvironment())
		assert.Equal(t, int64(200), cfg.Files.MinSizeBytes)
		assert.Equal(t, int64(1048576), cfg.Files.MaxSizeBytes)
		assert.Equal(t, 30*time.Minute, cfg.JWT.GetAccessTokenTTL())
	})

	t.Run("Значения по умолчанию без переменных окружения", func(t *testing.T) {
		cfg, err := config.Load(ctx)

		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.HTTP.Port)
		assert.Equal(t, int64(100), cfg.Files.MinSizeBytes)
		assert.Equal(t, int64(52428800), cfg.Files.MaxSizeBytes)
		assert.Equal(t, 15*time.Minute, cfg.JWT.GetAccessTokenTTL())
		assert.Equal(t, 24*time.Hour, cfg.JWT.GetRefreshTokenTTL())
		assert.Equal(t, 5*time.Second, cfg.Shutdown.GetTimeout())
	})

	t.Run("Некорректный TTL заменяется значением по умолчанию", func(t *testing.T) {
		t.Setenv("MEMORA_JWT_ACCESS_TOKEN_TTL", "not-a-duration")

		cfg, err := config.Load(ctx)

		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, cfg.JWT.GetAccessTokenTTL())
	})
}

func TestPostgresConfigDSN(t *testing.T) {
	cfg := config.PostgresConfig{
		Host:     "db",
		Port:     5432,
		User:     "memora",
		Password: "secret",
		Database: "memora",
	}

	t.Run("DSN для пула соединений", func(t *testing.T) {
		dsn := cfg.GetDSN()
		assert.Contains(t, dsn, "host=db")
		assert.Contains(t, dsn, "port=5432")
		assert.Contains(t, dsn, "dbname=memora")
	})

	t.Run("URL для миграций", func(t *testing.T) {
		url := cfg.GetConnectionURL()
		assert.Contains(t, url, "postgres://memora:secret@db:5432/memora")
	})
}
