// Package services defines domain-level token structures for the auth service.
package services

import "time"

// TokenPair - пара токенов, выдаваемая при регистрации, входе и обновлении.
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
}

// JWTClaims - доменное представление полезной нагрузки access токена.
type JWTClaims struct {
	UserID    string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
