// Package logger предоставляет структурированное логирование на основе zap
// с поддержкой контекста и идентификаторов запросов.
package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment определяет режим работы логгера.
type Environment string

// Поддерживаемые окружения.
const (
	Development Environment = "development"
	Production  Environment = "production"
)

// RequestID - имя поля для идентификатора запроса.
const RequestID = "request_id"

// Logger обертывает zap.Logger и добавляет данные из контекста.
type Logger struct {
	l *zap.Logger
}

// NewLogger создает новый логгер для указанного окружения.
// Пустой level означает уровень по умолчанию для окружения.
func NewLogger(env Environment, level string) (*Logger, error) {
	var cfg zap.Config
	if env == Production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("failed to parse log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Logger{l: zapLogger}, nil
}

// With возвращает копию логгера с дополнительными полями.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{l: l.l.With(fields...)}
}

// Info логирует сообщение на уровне Info.
func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Info(msg, addRequestID(ctx, fields)...)
}

// Warn логирует сообщение на уровне Warn.
func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Warn(msg, addRequestID(ctx, fields)...)
}

// Error логирует сообщение на уровне Error.
func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Error(msg, addRequestID(ctx, fields)...)
}

// Debug логирует сообщение на уровне Debug.
func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Debug(msg, addRequestID(ctx, fields)...)
}

// Fatal логирует сообщение на уровне Fatal и завершает процесс.
func (l *Logger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Fatal(msg, addRequestID(ctx, fields)...)
}

// Sync сбрасывает буферизованные записи.
func (l *Logger) Sync() error {
	return l.l.Sync()
}

// addRequestID добавляет request_id из контекста к полям записи.
func addRequestID(ctx context.Context, fields []zap.Field) []zap.Field {
	if id, ok := GetRequestID(ctx); ok {
		return append(fields, zap.String(RequestID, id))
	}
	return fields
}
