// Package db инициализирует базу данных сервиса Memora.
package db

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"memora/internal/config"
	"memora/pkg/db/postgres"
	"memora/pkg/logger"
)

// Константы для сообщений логгера.
const (
	LogDBInitializing    = "initializing database"
	LogDBInitialized     = "database initialized successfully"
	LogMigrationStarting = "starting database migrations"
)

// Константы для сообщений об ошибках.
const (
	ErrDBInit       = "failed to initialize database"
	ErrDBMigrations = "failed to apply database migrations"
	ErrGetPath      = "failed to get migrations path"
)

// DB представляет соединение с базой данных сервиса.
type DB struct {
	database *postgres.Database
}

// New инициализирует соединение с базой данных, предварительно применив миграции.
func New(ctx context.Context, cfg *config.PostgresConfig, migrationsDir string) (*DB, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogDBInitializing,
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Int("min_conn", cfg.MinConn),
		zap.Int("max_conn", cfg.MaxConn))

	migrationsPath := migrationsDir
	if !filepath.IsAbs(migrationsPath) {
		absPath, err := filepath.Abs(migrationsPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", ErrDBMigrations, ErrGetPath, err)
		}
		migrationsPath = absPath
	}
	migrationsPath = "file://" + migrationsPath

	log.Info(ctx, LogMigrationStarting, zap.String("migrations_path", migrationsPath))
	if err := postgres.MigrateDSN(ctx, cfg.GetConnectionURL(), migrationsPath); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}

	database, err := postgres.New(ctx, cfg.GetDSN(), cfg.MinConn, cfg.MaxConn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBInit, err)
	}

	log.Info(ctx, LogDBInitialized)
	return &DB{database: database}, nil
}

// Pool возвращает пул соединений с базой данных.
func (db *DB) Pool() *pgxpool.Pool {
	return db.database.Pool()
}

// Close закрывает соединение с базой данных.
func (db *DB) Close(ctx context.Context) {
	db.database.Close(ctx)
}

// Ping проверяет соединение с базой данных.
func (db *DB) Ping(ctx context.Context) error {
	return db.database.Ping(ctx)
}
