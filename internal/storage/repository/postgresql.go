// Package repository реализует хранилище данных на основе PostgreSQL
// для пользователей и их записей на программы тренировок.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища. Сервисы различают их через errors.Is
// и не видят сырых ошибок драйвера.
var (
	// ErrNotFound запись отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrUniqueViolation нарушено ограничение уникальности при вставке.
	ErrUniqueViolation = errors.New("unique violation")
)

// uniqueViolationCode код ошибки PostgreSQL для нарушения unique constraint.
const uniqueViolationCode = "23505"

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

// mapError переводит ошибки драйвера в ошибки уровня хранилища.
func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("%s: %w", op, ErrUniqueViolation)
	}
	return fmt.Errorf("%s: %w", op, err)
}
