package models

import "time"

// User представляет зарегистрированного пользователя сайта.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта (уникальная)
	PasswordHash string    // bcrypt-хэш пароля
	CreatedAt    time.Time // Дата создания учётной записи
}
