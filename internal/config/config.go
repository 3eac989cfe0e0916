// Package config содержит конфигурацию сервиса Memora.
package config

import (
	"context"
	"fmt"

	"memora/pkg/config"
)

const serviceName = "memora"

// Config объединяет все настройки сервиса.
type Config struct {
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Logging  LoggingConfig
	Files    FileUploadConfig
	Shutdown ShutdownConfig
}

// Load загружает конфигурацию сервиса из окружения.
func Load(ctx context.Context) (*Config, error) {
	cfg, err := config.Load[Config](ctx, serviceName)
	if err != nil {
		return nil, fmt.Errorf("loading %s config: %w", serviceName, err)
	}
	return cfg, nil
}
