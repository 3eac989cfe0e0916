// Package http содержит компоненты HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"

	authapp "memora/internal/auth/app"
	svc "memora/internal/auth/ports/services"
	filesapp "memora/internal/files/app"
	"memora/internal/gateway/adapters/http/auth"
	"memora/internal/gateway/adapters/http/files"
	"memora/internal/gateway/adapters/http/middleware"
	"memora/internal/gateway/adapters/http/notes"
	notesapp "memora/internal/notes/app"
)

// SetupRouter настраивает маршрутизацию HTTP сервера.
func SetupRouter(
	app *fiber.App,
	tokenService svc.TokenService,
	authUseCase *authapp.AuthUseCase,
	userUseCase *authapp.UserUseCase,
	noteUseCase *notesapp.NoteUseCase,
	attachmentUseCase *filesapp.AttachmentUseCase,
) {
	authHandler := auth.NewHandler(authUseCase, userUseCase)
	notesHandler := notes.NewHandler(noteUseCase)
	filesHandler := files.NewHandler(attachmentUseCase)

	// Middleware для всех запросов.
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	// API версии 1.
	apiV1 := app.Group("/api/v1")

	// Auth routes (публичные).
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/refresh", authHandler.RefreshTokens)
	authRoutes.Post("/logout", authHandler.Logout)

	requireAuth := middleware.NewAuthMiddleware(tokenService)

	// Профиль пользователя.
	userRoutes := apiV1.Group("/user")
	userRoutes.Use(requireAuth)
	userRoutes.Get("/profile", authHandler.GetProfile)

	// Заметки и их вложения.
	noteRoutes := apiV1.Group("/notes")
	noteRoutes.Use(requireAuth)
	noteRoutes.Post("/", notesHandler.CreateNote)
	noteRoutes.Get("/", notesHandler.ListNotes)
	noteRoutes.Get("/:note_id", notesHandler.GetNote)
	noteRoutes.Put("/:note_id", notesHandler.UpdateNote)
	noteRoutes.Patch("/:note_id", notesHandler.UpdateNote)
	noteRoutes.Delete("/:note_id", notesHandler.DeleteNote)
	noteRoutes.Post("/:note_id/files", filesHandler.Upload)
	noteRoutes.Get("/:note_id/files", filesHandler.ListForNote)

	// Вложения по идентификатору.
	fileRoutes := apiV1.Group("/files")
	fileRoutes.Use(requireAuth)
	fileRoutes.Get("/:file_id", filesHandler.GetMetadata)
	fileRoutes.Get("/:file_id/download", filesHandler.Download)
	fileRoutes.Delete("/:file_id", filesHandler.Delete)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
