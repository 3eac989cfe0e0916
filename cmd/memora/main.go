package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	authpg "memora/internal/auth/adapters/postgres"
	authredis "memora/internal/auth/adapters/redis"
	authsvc "memora/internal/auth/adapters/services"
	authapp "memora/internal/auth/app"
	"memora/internal/config"
	"memora/internal/db"
	filespg "memora/internal/files/adapters/postgres"
	filesapp "memora/internal/files/app"
	filesvc "memora/internal/files/domain/services"
	httpServer "memora/internal/gateway/adapters/http"
	notespg "memora/internal/notes/adapters/postgres"
	notesapp "memora/internal/notes/app"
	"memora/pkg/db/redis"
	"memora/pkg/logger"
	"memora/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "MEMORA_LOGGER_MODE"
	EnvLoggerLevel = "MEMORA_LOGGER_LEVEL"
)

// Путь к директории миграций.
const migrationsDir = "migrations/memora"

// Запас на multipart-заголовки поверх предельного размера файла.
const bodyLimitOverhead = 1 << 20

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrCreateRedisClient    = "failed to create Redis client"
	ErrStartHTTPServer      = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "memora service started"
	LogServiceShutdownDone = "memora service shutdown complete"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitStorage         = "initializing storage"
	LogInitServices        = "initializing services"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(env)),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitStorage)
		database, err := db.New(ctx, &cfg.Postgres, migrationsDir)
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}

		redisClient, err := redis.NewClient(cfg.Redis.ToClientConfig())
		if err != nil {
			log.Error(ctx, ErrCreateRedisClient, zap.Error(err))
			database.Close(ctx)
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitServices)
		pool := database.Pool()

		userRepo := authpg.NewUserRepository(pool)
		tokenStore := authredis.NewTokenStore(redisClient.RawClient())
		passwordSvc := authsvc.NewBcrypt(cfg.JWT.BCryptCost)
		tokenSvc := authsvc.NewJWT(cfg.JWT.SecretKey, cfg.JWT.GetAccessTokenTTL())
		authUseCase := authapp.NewAuthUseCase(userRepo, tokenStore, passwordSvc, tokenSvc, cfg.JWT.GetRefreshTokenTTL())
		userUseCase := authapp.NewUserUseCase(userRepo)

		noteRepo := notespg.NewNoteRepository(pool)
		noteUseCase := notesapp.NewNoteUseCase(noteRepo)

		attachmentRepo := filespg.NewAttachmentRepository(pool)
		noteGuard := filespg.NewNoteGuard(pool)
		validator := filesvc.NewFileValidator(filesvc.NewSignatureDetector(),
			cfg.Files.MinSizeBytes, cfg.Files.MaxSizeBytes)
		attachmentUseCase := filesapp.NewAttachmentUseCase(attachmentRepo, noteGuard,
			validator, filesvc.NewNopCompressor())

		log.Info(ctx, LogInitHTTPServer)
		app := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			BodyLimit:    int(cfg.Files.MaxSizeBytes) + bodyLimitOverhead,
		})

		httpServer.SetupRouter(app, tokenSvc, authUseCase, userUseCase, noteUseCase, attachmentUseCase)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := app.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
			// Остановка HTTP сервера.
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return app.Shutdown()
			},
			// Закрытие Redis соединения.
			func(ctx context.Context) error {
				log.Info(ctx, "closing Redis connection")
				return redisClient.Close()
			},
			// Закрытие пула соединений с базой данных.
			func(ctx context.Context) error {
				log.Info(ctx, "closing database connection")
				database.Close(ctx)
				return nil
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
