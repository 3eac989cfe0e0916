// Package redis содержит хранилище refresh токенов на основе Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"memora/internal/auth/ports/repositories"
	"memora/pkg/logger"
)

// Префикс ключей refresh токенов.
const tokenKeyPrefix = "refresh_token:"

// Константы для логирования.
const (
	ErrorFailedToStore  = "failed to store refresh token"
	ErrorFailedToLookup = "failed to look up refresh token"
	ErrorFailedToRevoke = "failed to revoke refresh token"
)

// TokenStore реализует интерфейс repositories.RefreshTokenStore.
// TTL ключа и есть срок действия токена: истекший токен исчезает сам.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore создает новое хранилище refresh токенов.
func NewTokenStore(client *redis.Client) repositories.RefreshTokenStore {
	return &TokenStore{client: client}
}

// Store сохраняет токен пользователя с временем жизни.
func (s *TokenStore) Store(ctx context.Context, token, userID string, ttl time.Duration) error {
	log := logger.Log(ctx).With(zap.String("method", "TokenStore.Store"))

	if err := s.client.Set(ctx, tokenKeyPrefix+token, userID, ttl).Err(); err != nil {
		log.Error(ctx, ErrorFailedToStore, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToStore, err)
	}
	return nil
}

// Lookup возвращает ID пользователя для токена или пустую строку,
// если токен не существует либо истек.
func (s *TokenStore) Lookup(ctx context.Context, token string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", "TokenStore.Lookup"))

	userID, err := s.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		log.Error(ctx, ErrorFailedToLookup, zap.Error(err))
		return "", fmt.Errorf("%s: %w", ErrorFailedToLookup, err)
	}
	return userID, nil
}

// Revoke удаляет токен.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	log := logger.Log(ctx).With(zap.String("method", "TokenStore.Revoke"))

	if err := s.client.Del(ctx, tokenKeyPrefix+token).Err(); err != nil {
		log.Error(ctx, ErrorFailedToRevoke, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToRevoke, err)
	}
	return nil
}
