// Package auth содержит HTTP-обработчики аутентификации.
package auth

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	authapp "memora/internal/auth/app"
	"memora/internal/auth/domain/entities"
	"memora/internal/auth/domain/services"
	"memora/internal/gateway/adapters/http/middleware"
	"memora/internal/gateway/app/dto"
	"memora/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerRegister = "handling register request"
	LogHandlerLogin    = "handling login request"
	LogHandlerRefresh  = "handling refresh tokens request"
	LogHandlerLogout   = "handling logout request"
	LogHandlerProfile  = "handling get profile request"

	ErrMsgInvalidRequestBody = "invalid request body"
)

// Handler обработчик HTTP-запросов аутентификации.
type Handler struct {
	authUseCase *authapp.AuthUseCase
	userUseCase *authapp.UserUseCase
	validate    *validator.Validate
}

// NewHandler создает новый экземпляр обработчика аутентификации.
func NewHandler(authUseCase *authapp.AuthUseCase, userUseCase *authapp.UserUseCase) *Handler {
	return &Handler{
		authUseCase: authUseCase,
		userUseCase: userUseCase,
		validate:    validator.New(),
	}
}

// Register обрабатывает запрос на регистрацию пользователя.
func (h *Handler) Register(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.Register"))
	log.Debug(userCtx, LogHandlerRegister)

	var req dto.RegisterRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(ctx, err.Error())
	}

	pair, err := h.authUseCase.Register(userCtx, req.Email, req.Username, req.Password)
	if err != nil {
		log.Debug(userCtx, "registration failed", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(tokenPairResponse(pair)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Login обрабатывает запрос на вход.
func (h *Handler) Login(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.Login"))
	log.Debug(userCtx, LogHandlerLogin)

	var req dto.LoginRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(ctx, err.Error())
	}

	pair, err := h.authUseCase.Login(userCtx, req.Email, req.Password)
	if err != nil {
		log.Debug(userCtx, "login failed", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(tokenPairResponse(pair)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// RefreshTokens обрабатывает запрос на обновление пары токенов.
func (h *Handler) RefreshTokens(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.RefreshTokens"))
	log.Debug(userCtx, LogHandlerRefresh)

	var req dto.RefreshRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(ctx, err.Error())
	}

	pair, err := h.authUseCase.RefreshTokens(userCtx, req.RefreshToken)
	if err != nil {
		log.Debug(userCtx, "token refresh failed", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(tokenPairResponse(pair)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Logout обрабатывает запрос на выход.
func (h *Handler) Logout(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.Logout"))
	log.Debug(userCtx, LogHandlerLogout)

	var req dto.LogoutRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := h.authUseCase.Logout(userCtx, req.RefreshToken); err != nil {
		log.Error(userCtx, "logout failed", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.SendStatus(fiber.StatusNoContent); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// GetProfile обрабатывает запрос профиля текущего пользователя.
func (h *Handler) GetProfile(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.GetProfile"))
	log.Debug(userCtx, LogHandlerProfile)

	userID, ok := middleware.UserIDFromContext(userCtx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}

	user, err := h.userUseCase.GetProfile(userCtx, userID)
	if err != nil {
		log.Error(userCtx, "failed to get profile", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(dto.UserProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// tokenPairResponse преобразует доменную пару токенов в DTO.
func tokenPairResponse(pair *services.TokenPair) dto.TokenPairResponse {
	return dto.TokenPairResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
	}
}

// badRequest отправляет ответ 400 с сообщением об ошибке.
func badRequest(ctx fiber.Ctx, msg string) error {
	if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg}); err != nil {
		return fmt.Errorf("failed to send bad request response: %w", err)
	}
	return nil
}

// handleError переводит доменные ошибки аутентификации в HTTP статусы.
func handleError(ctx fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "Internal server error"

	switch {
	case errors.Is(err, entities.ErrInvalidCredentials),
		errors.Is(err, authapp.ErrInvalidRefreshToken):
		status = fiber.StatusUnauthorized
		msg = err.Error()
	case errors.Is(err, entities.ErrEmailExists):
		status = fiber.StatusConflict
		msg = err.Error()
	case errors.Is(err, entities.ErrInvalidEmail),
		errors.Is(err, entities.ErrEmptyUsername),
		errors.Is(err, entities.ErrWeakPassword):
		status = fiber.StatusBadRequest
		msg = err.Error()
	case errors.Is(err, entities.ErrUserNotFound):
		status = fiber.StatusNotFound
		msg = err.Error()
	}

	if err := ctx.Status(status).JSON(fiber.Map{"error": msg}); err != nil {
		return fmt.Errorf("error sending error response: %w", err)
	}
	return nil
}
