package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/coach-platform/internal/access"
	"github.com/magabrotheeeer/coach-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/coach-platform/internal/lib/password"
	"github.com/magabrotheeeer/coach-platform/internal/models"
	"github.com/magabrotheeeer/coach-platform/internal/storage/repository"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UsersMock) RegisterUserWithEnrollment(ctx context.Context, user models.User, entry models.Enrollment) (string, error) {
	args := m.Called(ctx, user, entry)
	return args.String(0), args.Error(1)
}

func (m *UsersMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

var (
	now     = time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	testLog = slog.New(slog.DiscardHandler)
)

func newService(users *UsersMock) *AuthService {
	return NewAuthService(users, jwt.NewMaker("test-secret", time.Hour),
		access.FixedClock{T: now}, testLog)
}

func TestRegister_WithoutProgramIntent(t *testing.T) {
	users := new(UsersMock)
	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "alumno@example.com" && u.UID != "" && u.PasswordHash != "secret123"
	})).Return("uid-1", nil)

	uid, err := newService(users).Register(context.Background(), "alumno@example.com", "secret123", "")
	require.NoError(t, err)

	assert.Equal(t, "uid-1", uid)
	users.AssertNotCalled(t, "RegisterUserWithEnrollment", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_WithProgramIntent(t *testing.T) {
	users := new(UsersMock)
	users.On("RegisterUserWithEnrollment", mock.Anything, mock.Anything,
		mock.MatchedBy(func(e models.Enrollment) bool {
			return e.ProgramSlug == "fuerza" && e.Status == models.StatusTrial &&
				e.StartUnix == now.Unix()
		})).Return("uid-2", nil)

	uid, err := newService(users).Register(context.Background(), "alumno@example.com", "secret123", "fuerza")
	require.NoError(t, err)
	assert.Equal(t, "uid-2", uid)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(UsersMock)
	users.On("RegisterUser", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("storage.RegisterUser: %w", repository.ErrUniqueViolation))

	_, err := newService(users).Register(context.Background(), "alumno@example.com", "secret123", "")
	assert.True(t, errors.Is(err, ErrUserExists))
}

func TestLogin_Success(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	users := new(UsersMock)
	users.On("GetUserByEmail", mock.Anything, "alumno@example.com").
		Return(&models.User{UID: "uid-1", Email: "alumno@example.com", PasswordHash: hash}, nil)

	token, err := newService(users).Login(context.Background(), "alumno@example.com", "secret123")
	require.NoError(t, err)

	claims, err := jwt.NewMaker("test-secret", time.Hour).ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UserUID)
	assert.Equal(t, "alumno@example.com", claims.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	users := new(UsersMock)
	users.On("GetUserByEmail", mock.Anything, "alumno@example.com").
		Return(&models.User{UID: "uid-1", PasswordHash: hash}, nil)

	_, err = newService(users).Login(context.Background(), "alumno@example.com", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestLogin_UnknownUserSameError(t *testing.T) {
	users := new(UsersMock)
	users.On("GetUserByEmail", mock.Anything, "nadie@example.com").
		Return(nil, fmt.Errorf("storage.GetUserByEmail: %w", repository.ErrNotFound))

	_, err := newService(users).Login(context.Background(), "nadie@example.com", "secret123")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestLogin_StoreFailureIsNotCredentialError(t *testing.T) {
	users := new(UsersMock)
	users.On("GetUserByEmail", mock.Anything, "alumno@example.com").
		Return(nil, errors.New("connection refused"))

	_, err := newService(users).Login(context.Background(), "alumno@example.com", "secret123")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
}
