package repositories

import (
	"context"
	"time"
)

// RefreshTokenStore определяет интерфейс хранилища refresh токенов.
// Токен непрозрачен для клиента; хранилище связывает его с пользователем
// на ограниченное время. Отзыв - это удаление.
type RefreshTokenStore interface {
	// Store сохраняет токен пользователя с временем жизни.
	Store(ctx context.Context, token, userID string, ttl time.Duration) error
	// Lookup возвращает ID пользователя для токена.
	// Возвращает пустую строку, если токен не существует или истек.
	Lookup(ctx context.Context, token string) (string, error)
	// Revoke удаляет токен. Отзыв несуществующего токена не является ошибкой.
	Revoke(ctx context.Context, token string) error
}
