package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/coach-platform/internal/models"
)

// FindEnrollment возвращает запись пользователя на программу или ErrNotFound.
func (s *Storage) FindEnrollment(ctx context.Context, userUID, programSlug string) (*models.Enrollment, error) {
	const op = "storage.FindEnrollment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, program_slug, status, start_date
			  FROM enrollments
			  WHERE user_uid = $1 AND program_slug = $2`
	row := s.DB.QueryRowContext(ctx, query, userUID, programSlug)

	var result models.Enrollment
	if err := row.Scan(&result.ID, &result.UserUID, &result.ProgramSlug,
		&result.Status, &result.StartUnix); err != nil {
		return nil, mapError(op, err)
	}
	return &result, nil
}

// CreateEnrollment вставляет новую запись на программу и возвращает её ID.
// При существующей паре (user_uid, program_slug) возвращает ErrUniqueViolation.
func (s *Storage) CreateEnrollment(ctx context.Context, entry models.Enrollment) (int, error) {
	const op = "storage.CreateEnrollment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO enrollments (user_uid, program_slug, status, start_date)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		entry.UserUID, entry.ProgramSlug, entry.Status, entry.StartUnix).Scan(&newID)
	if err != nil {
		return 0, mapError(op, err)
	}
	return newID, nil
}

// ListEnrollmentsByUser возвращает все записи пользователя на программы.
func (s *Storage) ListEnrollmentsByUser(ctx context.Context, userUID string) ([]*models.Enrollment, error) {
	const op = "storage.ListEnrollmentsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, program_slug, status, start_date
			  FROM enrollments
			  WHERE user_uid = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Enrollment
	for rows.Next() {
		var item models.Enrollment
		if err := rows.Scan(&item.ID, &item.UserUID, &item.ProgramSlug,
			&item.Status, &item.StartUnix); err != nil {
			return nil, mapError(op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return result, nil
}

// ListActiveTrials возвращает все пробные записи вместе с email пользователя.
// Используется планировщиком напоминаний: истечение пробного периода
// выводится при чтении, поэтому выборка идёт по хранимому статусу trial.
func (s *Storage) ListActiveTrials(ctx context.Context) ([]*models.TrialInfo, error) {
	const op = "storage.ListActiveTrials"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.email, e.user_uid, e.program_slug, e.start_date
			  FROM enrollments e
			  JOIN users u ON e.user_uid = u.uid
			  WHERE e.status = 'trial'`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.TrialInfo
	for rows.Next() {
		var ti models.TrialInfo
		if err := rows.Scan(&ti.Email, &ti.UserUID, &ti.ProgramSlug, &ti.StartUnix); err != nil {
			return nil, mapError(op, err)
		}
		result = append(result, &ti)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return result, nil
}

// UpdateEnrollmentStatus переводит запись в новый статус и возвращает число
// изменённых строк. Дата начала при этом не трогается. Вызывается внешним
// биллинговым коллаборатором при переходах trial/expired -> paid.
func (s *Storage) UpdateEnrollmentStatus(ctx context.Context, userUID, programSlug string, status models.EnrollmentStatus) (int, error) {
	const op = "storage.UpdateEnrollmentStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE enrollments
			  SET status = $1
			  WHERE user_uid = $2 AND program_slug = $3`
	result, err := s.DB.ExecContext(ctx, query, status, userUID, programSlug)
	if err != nil {
		return 0, mapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, mapError(op, err)
	}
	return int(rowsAffected), nil
}
