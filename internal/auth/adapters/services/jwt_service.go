package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	svc "memora/internal/auth/ports/services"
	"memora/pkg/logger"
)

// Константы для работы с JWT.
const (
	methodGenerateAccessToken = "GenerateAccessToken"
	methodValidateAccessToken = "ValidateAccessToken"
	msgGeneratingAccessToken  = "generating access token"
	msgValidatingToken        = "validating token"
	msgTokenValidated         = "token validated successfully"
	msgInvalidToken           = "invalid token format"
	msgTokenExpired           = "token has expired"
	//nolint:gosec
	errSigningToken = "error signing token"
	//nolint:gosec
	msgErrParsingToken    = "error parsing token"
	errCtxGeneratingToken = "generating token"
	errCtxValidatingToken = "validating token"
)

// ErrInvalidAlgorithm представляет статическую ошибку неверного алгоритма подписи.
var ErrInvalidAlgorithm = errors.New("invalid signing algorithm")

// Claims используется для адаптации между доменной моделью и библиотекой JWT.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// ServiceJWT реализует интерфейс TokenService.
type ServiceJWT struct {
	secretKey      []byte
	accessTokenTTL time.Duration
}

// NewJWT создает новый экземпляр сервиса JWT.
func NewJWT(secretKey string, accessTokenTTL time.Duration) svc.TokenService {
	return &ServiceJWT{
		secretKey:      []byte(secretKey),
		accessTokenTTL: accessTokenTTL,
	}
}

// GenerateAccessToken выпускает подписанный access токен с временем жизни сервиса.
func (s *ServiceJWT) GenerateAccessToken(ctx context.Context, userID, username string) (string, time.Time, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGenerateAccessToken))
	log.Debug(ctx, msgGeneratingAccessToken, zap.String("userID", userID))

	now := time.Now().UTC()
	expiresAt := now.Add(s.accessTokenTTL)

	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w", errCtxGeneratingToken, err)
	}

	return signed, expiresAt, nil
}

// ValidateAccessToken проверяет JWT токен и возвращает ID пользователя.
func (s *ServiceJWT) ValidateAccessToken(ctx context.Context, tokenString string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", methodValidateAccessToken))
	log.Debug(ctx, msgValidatingToken)

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug(ctx, msgTokenExpired)
			return "", fmt.Errorf("%s: %w", errCtxValidatingToken, svc.ErrExpiredJWTToken)
		}
		log.Debug(ctx, msgErrParsingToken, zap.Error(err))
		return "", fmt.Errorf("%s: %w", errCtxValidatingToken, svc.ErrInvalidJWTToken)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		log.Debug(ctx, msgInvalidToken)
		return "", fmt.Errorf("%s: %w", errCtxValidatingToken, svc.ErrInvalidJWTToken)
	}

	if claims.UserID == "" {
		log.Debug(ctx, "user_id claim is empty")
		return "", fmt.Errorf("%s: %w", errCtxValidatingToken, svc.ErrInvalidJWTToken)
	}

	log.Debug(ctx, msgTokenValidated, zap.String("userID", claims.UserID))
	return claims.UserID, nil
}
