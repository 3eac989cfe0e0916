// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// Ключ Locals, под которым хранится контекст запроса с request_id
// и идентификатором пользователя.
const UserContextKey = "userContext"

// userIDKeyType - тип ключа контекста для предотвращения коллизий.
type userIDKeyType struct{}

var userIDKey = userIDKeyType{}

// WithUserID возвращает контекст с идентификатором пользователя.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext извлекает идентификатор пользователя из контекста.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// RequestContext возвращает контекст запроса, подготовленный middleware.
func RequestContext(ctx fiber.Ctx) context.Context {
	if userCtx, ok := ctx.Locals(UserContextKey).(context.Context); ok {
		return userCtx
	}
	return ctx.Context()
}
