package config

import (
	"memora/pkg/logger"
)

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	Level string `yaml:"level" env:"MEMORA_LOGGER_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode" env:"MEMORA_LOGGER_MODE" env-default:"development"`
}

// GetEnvironment преобразует строку режима в logger environment.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if l.Mode == "production" {
		return logger.Production
	}
	return logger.Development
}
