package app

import (
	"context"
	"fmt"

	"memora/internal/auth/domain/entities"
	"memora/internal/auth/ports/repositories"
)

// UserUseCase реализует сценарии работы с профилем пользователя.
type UserUseCase struct {
	userRepo repositories.UserRepository
}

// NewUserUseCase создает новый экземпляр UserUseCase.
func NewUserUseCase(userRepo repositories.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

// GetProfile возвращает профиль пользователя по его ID.
func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entities.User, error) {
	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return user, nil
}
