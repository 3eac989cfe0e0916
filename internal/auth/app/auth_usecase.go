// Package app implements application business logic for the auth service.
package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"memora/internal/auth/domain/entities"
	"memora/internal/auth/domain/services"
	"memora/internal/auth/ports/repositories"
	svc "memora/internal/auth/ports/services"
	"memora/pkg/logger"
)

const (
	methodRegister      = "Register"
	methodLogin         = "Login"
	methodRefreshTokens = "RefreshTokens"
	methodLogout        = "Logout"

	msgStartRegistration   = "starting user registration"
	msgEmailExists         = "user with this email already exists"
	msgUserRegistered      = "user registered successfully"
	msgLoginAttempt        = "login attempt"
	msgLoginNonExistent    = "login attempt with non-existent email"
	msgInvalidPasswordAuth = "invalid password provided"
	msgUserLoggedIn        = "user logged in successfully"
	msgRefreshingTokens    = "refreshing tokens"
	msgUnknownRefreshToken = "unknown or expired refresh token"
	msgTokensRefreshed     = "tokens refreshed successfully"
	msgUserLoggedOut       = "user logged out successfully"

	errCtxCheckingUser     = "checking existing user"
	errCtxHashingPassword  = "hashing password"
	errCtxCreatingUser     = "creating user"
	errCtxGeneratingTokens = "generating tokens"
	errCtxFindingUser      = "finding user"
	errCtxVerifyingPass    = "verifying password"
	errCtxLookupToken      = "looking up refresh token"
	errCtxRevokingToken    = "revoking refresh token"
	errCtxStoringToken     = "storing refresh token"
)

// ErrInvalidRefreshToken возвращается для неизвестных и истекших refresh токенов.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// AuthUseCase реализует сценарии аутентификации.
type AuthUseCase struct {
	userRepo        repositories.UserRepository
	tokenStore      repositories.RefreshTokenStore
	passwordSvc     svc.PasswordService
	tokenSvc        svc.TokenService
	refreshTokenTTL time.Duration
}

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	tokenStore repositories.RefreshTokenStore,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
	refreshTokenTTL time.Duration,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:        userRepo,
		tokenStore:      tokenStore,
		passwordSvc:     passwordSvc,
		tokenSvc:        tokenSvc,
		refreshTokenTTL: refreshTokenTTL,
	}
}

// Register создает нового пользователя с предоставленными учетными данными.
func (a *AuthUseCase) Register(ctx context.Context, email, username, password string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("email", email))
	log.Debug(ctx, msgStartRegistration)

	if !emailPattern.MatchString(email) {
		return nil, entities.ErrInvalidEmail
	}
	if username == "" {
		return nil, entities.ErrEmptyUsername
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		log.Error(ctx, errCtxCheckingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if existing != nil {
		log.Debug(ctx, msgEmailExists)
		return nil, entities.ErrEmailExists
	}

	hash, err := a.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	user, err := a.userRepo.Create(ctx, &entities.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", user.ID))

	pair, err := a.generateTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}
	return pair, nil
}

// Login аутентифицирует пользователя по email и паролю.
func (a *AuthUseCase) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("email", email))
	log.Debug(ctx, msgLoginAttempt)

	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgLoginNonExistent)
			return nil, entities.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	ok, err := a.passwordSvc.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPass, err)
	}
	if !ok {
		log.Debug(ctx, msgInvalidPasswordAuth)
		return nil, entities.ErrInvalidCredentials
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("userID", user.ID))

	pair, err := a.generateTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}
	return pair, nil
}

// RefreshTokens обменивает действительный refresh токен на новую пару токенов.
// Старый токен отзывается: каждый refresh токен одноразовый.
func (a *AuthUseCase) RefreshTokens(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRefreshTokens))
	log.Debug(ctx, msgRefreshingTokens)

	userID, err := a.tokenStore.Lookup(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxLookupToken, err)
	}
	if userID == "" {
		log.Debug(ctx, msgUnknownRefreshToken)
		return nil, ErrInvalidRefreshToken
	}

	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	if err := a.tokenStore.Revoke(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxRevokingToken, err)
	}

	pair, err := a.generateTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}

	log.Info(ctx, msgTokensRefreshed, zap.String("userID", user.ID))
	return pair, nil
}

// Logout отзывает refresh токен пользователя.
func (a *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	log := logger.Log(ctx).With(zap.String("method", methodLogout))

	if err := a.tokenStore.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("%s: %w", errCtxRevokingToken, err)
	}

	log.Info(ctx, msgUserLoggedOut)
	return nil
}

// generateTokenPair выпускает access токен и одноразовый refresh токен.
func (a *AuthUseCase) generateTokenPair(ctx context.Context, user *entities.User) (*services.TokenPair, error) {
	accessToken, accessExpiresAt, err := a.tokenSvc.GenerateAccessToken(ctx, user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	refreshToken := uuid.New().String()
	refreshExpiresAt := time.Now().UTC().Add(a.refreshTokenTTL)

	if err := a.tokenStore.Store(ctx, refreshToken, user.ID, a.refreshTokenTTL); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxStoringToken, err)
	}

	return &services.TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  accessExpiresAt,
		RefreshTokenExpiresAt: refreshExpiresAt,
	}, nil
}

// validatePassword проверяет минимальные требования к паролю:
// не короче 8 символов, содержит букву и цифру.
func validatePassword(password string) error {
	if len(password) < 8 {
		return entities.ErrWeakPassword
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return entities.ErrWeakPassword
	}
	return nil
}
