package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/coach-platform/internal/models"
)

// RegisterUser сохраняет нового пользователя и возвращает его UID.
// При существующем email возвращает ErrUniqueViolation.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (uid, email, password_hash)
			  VALUES ($1, $2, $3)
			  RETURNING uid`
	var newUID string
	if err := s.DB.QueryRowContext(ctx, query,
		user.UID, user.Email, user.PasswordHash).Scan(&newUID); err != nil {
		return "", mapError(op, err)
	}
	return newUID, nil
}

// RegisterUserWithEnrollment атомарно сохраняет пользователя и его пробную
// запись на программу: либо появляются обе строки, либо ни одной.
func (s *Storage) RegisterUserWithEnrollment(ctx context.Context, user models.User, entry models.Enrollment) (string, error) {
	const op = "storage.RegisterUserWithEnrollment"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", mapError(op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newUID string
	userQuery := `INSERT INTO users (uid, email, password_hash)
				  VALUES ($1, $2, $3)
				  RETURNING uid`
	if err := tx.QueryRowContext(ctx, userQuery,
		user.UID, user.Email, user.PasswordHash).Scan(&newUID); err != nil {
		return "", mapError(op, err)
	}

	entryQuery := `INSERT INTO enrollments (user_uid, program_slug, status, start_date)
				   VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, entryQuery,
		newUID, entry.ProgramSlug, entry.Status, entry.StartUnix); err != nil {
		return "", mapError(op, err)
	}

	if err := tx.Commit(); err != nil {
		return "", mapError(op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пользователя по email или ErrNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, password_hash, created_at
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)
	if err := row.Scan(&u.UID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID или ErrNotFound.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, password_hash, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&u.UID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}
