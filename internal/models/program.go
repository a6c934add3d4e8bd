// Package models содержит доменные структуры платформы: программы тренировок,
// записи пользователей на программы (enrollment) и учётные записи.
package models

// Program представляет программу тренировок, принадлежащую контент-хранилищу (CMS).
// Для сервиса доступа программа доступна только на чтение.
type Program struct {
	Slug         string  // Уникальный идентификатор программы (slug истории в CMS)
	Title        string  // Название программы
	Subtitle     string  // Подзаголовок для публичной страницы
	Price        float64 // Стоимость полного доступа, >= 0
	TrialDays    int     // Длительность пробного периода в днях; 0 — без пробного периода
	WorkoutCount int     // Количество тренировок в программе
}
