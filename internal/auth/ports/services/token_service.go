// Package services defines service interfaces for the auth service.
package services

import (
	"context"
	"errors"
	"time"
)

// Ошибки, связанные с JWT токенами.
var (
	ErrInvalidJWTToken = errors.New("invalid JWT token")
	ErrExpiredJWTToken = errors.New("JWT token has expired")
)

// TokenService определяет интерфейс для работы с JWT токенами.
type TokenService interface {
	// GenerateAccessToken выпускает подписанный access токен.
	GenerateAccessToken(ctx context.Context, userID, username string) (string, time.Time, error)
	// ValidateAccessToken проверяет подпись и срок действия токена
	// и возвращает ID пользователя.
	ValidateAccessToken(ctx context.Context, token string) (string, error)
}
