// Package dto содержит структуры HTTP запросов и ответов.
package dto

import "time"

// RegisterRequest - запрос на регистрацию пользователя.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest - запрос на вход.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest - запрос на обновление пары токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest - запрос на выход.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenPairResponse - ответ с парой токенов.
type TokenPairResponse struct {
	AccessToken           string    `json:"accessToken"`
	RefreshToken          string    `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

// UserProfileResponse - профиль пользователя.
type UserProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}
