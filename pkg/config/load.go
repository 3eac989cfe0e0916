// Package config предоставляет функциональность для загрузки конфигурации из переменных окружения.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"memora/pkg/logger"
)

const (
	msgLoadingConfiguration    = "loading configuration"
	msgConfigurationLoaded     = "configuration loaded successfully"
	msgFailedLoadConfiguration = "failed to load configuration"

	errFailedLoadConfiguration = "failed to load configuration"

	attrService = "service"
	attrPath    = "path"
)

// Load читает конфигурацию типа T из deploy/.env (если файл существует)
// и переменных окружения.
func Load[T any](ctx context.Context, serviceName string) (*T, error) {
	log := logger.Log(ctx)

	envPath := filepath.Join("deploy", ".env")

	log.Info(ctx, msgLoadingConfiguration,
		zap.String(attrService, serviceName),
		zap.String(attrPath, envPath))

	var cfg T

	var err error
	if _, statErr := os.Stat(envPath); statErr == nil {
		err = cleanenv.ReadConfig(envPath, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		log.Error(ctx, msgFailedLoadConfiguration,
			zap.String(attrService, serviceName),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
	}

	log.Info(ctx, msgConfigurationLoaded,
		zap.String(attrService, serviceName))

	return &cfg, nil
}
