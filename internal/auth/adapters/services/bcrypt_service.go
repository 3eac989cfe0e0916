// Package services provides implementations of the auth service interfaces.
package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	svc "memora/internal/auth/ports/services"
)

// ServiceBcrypt реализует интерфейс PasswordService на основе bcrypt.
type ServiceBcrypt struct {
	cost int
}

// NewBcrypt создает новый сервис паролей с указанной стоимостью хеширования.
func NewBcrypt(cost int) svc.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &ServiceBcrypt{cost: cost}
}

// Hash возвращает bcrypt-хеш пароля.
func (s *ServiceBcrypt) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify проверяет соответствие пароля хешу.
func (s *ServiceBcrypt) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("failed to verify password: %w", err)
	}
	return true, nil
}
