package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	svc "memora/internal/auth/ports/services"
	"memora/pkg/logger"
)

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"
	ErrorInvalidToken       = "invalid or expired token"
)

const bearerPrefix = "Bearer "

// NewAuthMiddleware создает промежуточное ПО, проверяющее access токен
// и помещающее идентификатор пользователя в контекст запроса.
func NewAuthMiddleware(tokenSvc svc.TokenService) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := RequestContext(ctx)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		authHeader := ctx.Get("Authorization")
		if authHeader == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrorNoAuthHeader,
			})
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			log.Debug(requestCtx, ErrorInvalidTokenFormat)
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrorInvalidTokenFormat,
			})
		}

		token := strings.TrimPrefix(authHeader, bearerPrefix)
		userID, err := tokenSvc.ValidateAccessToken(requestCtx, token)
		if err != nil {
			log.Debug(requestCtx, ErrorInvalidToken, zap.Error(err))
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrorInvalidToken,
			})
		}

		ctx.Locals(UserContextKey, WithUserID(requestCtx, userID))

		return ctx.Next()
	}
}
