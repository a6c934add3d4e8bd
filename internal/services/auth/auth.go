// Package services содержит бизнес-логику регистрации и входа пользователей.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/coach-platform/internal/access"
	"github.com/magabrotheeeer/coach-platform/internal/lib/epoch"
	"github.com/magabrotheeeer/coach-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/coach-platform/internal/lib/password"
	"github.com/magabrotheeeer/coach-platform/internal/models"
	"github.com/magabrotheeeer/coach-platform/internal/storage/repository"
)

// Ошибки аутентификации, различимые обработчиками.
var (
	// ErrUserExists пользователь с таким email уже зарегистрирован.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// RegisterUserWithEnrollment атомарно сохраняет пользователя и его пробную запись.
	RegisterUserWithEnrollment(ctx context.Context, user models.User, entry models.Enrollment) (string, error)
	// GetUserByEmail возвращает пользователя по email или repository.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService отвечает за регистрацию, вход и выпуск токенов сессии.
type AuthService struct {
	users      UserRepository
	tokenMaker jwt.Maker
	clock      access.Clock
	log        *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, tokenMaker jwt.Maker, clock access.Clock, log *slog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokenMaker: tokenMaker,
		clock:      clock,
		log:        log,
	}
}

// Register создает нового пользователя с хэшированием пароля.
//
// Если передан programSlug (намерение начать программу при регистрации),
// пользователь и его пробная запись создаются в одной транзакции:
// пользователь не появляется без записи и наоборот.
func (s *AuthService) Register(ctx context.Context, email, rawPassword, programSlug string) (string, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		UID:          uuid.New().String(),
		Email:        email,
		PasswordHash: hashed,
	}

	var uid string
	if programSlug != "" {
		entry := models.Enrollment{
			ProgramSlug: programSlug,
			Status:      models.StatusTrial,
			StartUnix:   epoch.Seconds(s.clock.Now()),
		}
		uid, err = s.users.RegisterUserWithEnrollment(ctx, user, entry)
	} else {
		uid, err = s.users.RegisterUser(ctx, user)
	}
	if err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return "", fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("registered new user", slog.String("user_uid", uid))
	return uid, nil
}

// Login проверяет пароль пользователя и возвращает токен сессии.
// Отсутствие пользователя и неверный пароль неразличимы для вызывающей стороны.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.tokenMaker.GenerateToken(user.UID, user.Email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}
