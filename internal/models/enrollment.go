package models

// EnrollmentStatus хранимый статус записи пользователя на программу.
type EnrollmentStatus string

// Возможные статусы записи. Переходы монотонны:
// trial -> paid, trial -> expired, expired -> paid (реактивация).
// Переход trial -> expired выводится при чтении из даты начала,
// в хранилище статус не перезаписывается.
const (
	StatusTrial   EnrollmentStatus = "trial"
	StatusPaid    EnrollmentStatus = "paid"
	StatusExpired EnrollmentStatus = "expired"
)

// Enrollment связывает пользователя с программой. На пару (UserUID, ProgramSlug)
// существует не более одной записи, уникальность обеспечивает хранилище.
// StartUnix задаётся один раз при создании и далее не изменяется.
type Enrollment struct {
	ID          int              // Суррогатный ключ в хранилище
	UserUID     string           // UID пользователя
	ProgramSlug string           // Slug программы из контент-хранилища
	Status      EnrollmentStatus // Хранимый статус
	StartUnix   int64            // Момент начала, epoch. Канонически секунды; legacy-записи могут быть в миллисекундах
}

// TrialInfo агрегирует данные пробной записи для планировщика уведомлений.
type TrialInfo struct {
	Email       string `json:"email"`
	UserUID     string `json:"user_uid"`
	ProgramSlug string `json:"program_slug"`
	StartUnix   int64  `json:"start_unix"`
}

// TrialReminder сообщение для очереди уведомлений об окончании пробного периода.
type TrialReminder struct {
	Email        string `json:"email"`
	ProgramSlug  string `json:"program_slug"`
	ProgramTitle string `json:"program_title"`
	DaysLeft     int    `json:"days_left"`
}
