// Package entities defines the domain entities for the auth service.
package entities

import (
	"errors"
	"time"
)

// Ошибки доменной модели пользователя.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("user with this email already exists")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrEmptyUsername      = errors.New("username is required")
	ErrWeakPassword       = errors.New("password must be at least 8 characters and contain a letter and a digit")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User представляет собой учетную запись пользователя.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
