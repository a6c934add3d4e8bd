// Package access содержит чистую логику вычисления уровня доступа пользователя
// к программе тренировок: по конфигурации программы, записи пользователя и
// текущему моменту времени выводится решение (нет записи / пробный период /
// полный доступ / доступ истёк).
//
// Раньше эта арифметика дублировалась по обработчикам маршрутов с мелкими
// расхождениями; Evaluate — единственная точка, где она живёт теперь.
package access

import (
	"math"
	"time"

	"github.com/magabrotheeeer/coach-platform/internal/lib/epoch"
	"github.com/magabrotheeeer/coach-platform/internal/models"
)

// Kind вид решения о доступе.
type Kind string

// Возможные решения.
const (
	// KindNoEnrollment — записи нет, пользователя ведут на публичную страницу программы.
	KindNoEnrollment Kind = "no_enrollment"
	// KindTrial — пробный период активен, контент показывается со счётчиком оставшихся дней.
	KindTrial Kind = "trial"
	// KindActive — оплаченный полный доступ.
	KindActive Kind = "active"
	// KindExpired — доступ истёк, пользователя ведут на публичную страницу с пометкой об ошибке.
	KindExpired Kind = "expired"
)

// Decision результат вычисления доступа.
type Decision struct {
	Kind          Kind `json:"kind"`
	DaysRemaining int  `json:"days_remaining"` // Осталось дней пробного периода; значимо только для KindTrial
}

// Evaluate вычисляет решение о доступе по длительности пробного периода программы,
// записи пользователя (nil — записи нет) и текущему моменту.
//
// Правила:
//   - запись отсутствует — KindNoEnrollment, в том числе при trialDays == 0;
//   - статус paid — KindActive независимо от времени;
//   - статус expired — KindExpired;
//   - статус trial — KindTrial, пока now < start + trialDays суток, иначе KindExpired;
//     граница трактуется нестрого: ровно в момент окончания доступ уже истёк.
//
// Функция чистая: без побочных эффектов и без ошибок. Момент начала записи
// хранится как epoch-число неизвестной единицы и нормализуется пакетом epoch.
func Evaluate(trialDays int, enr *models.Enrollment, now time.Time) Decision {
	if enr == nil {
		return Decision{Kind: KindNoEnrollment}
	}

	switch enr.Status {
	case models.StatusPaid:
		return Decision{Kind: KindActive}
	case models.StatusExpired:
		return Decision{Kind: KindExpired}
	case models.StatusTrial:
		return evaluateTrial(trialDays, enr.StartUnix, now)
	default:
		// Неизвестный статус: доступ закрыт.
		return Decision{Kind: KindExpired}
	}
}

func evaluateTrial(trialDays int, startUnix int64, now time.Time) Decision {
	start := epoch.Time(startUnix)
	expiry := start.Add(time.Duration(trialDays) * 24 * time.Hour)
	if !now.Before(expiry) {
		return Decision{Kind: KindExpired}
	}

	elapsedDays := now.Sub(start).Hours() / 24
	remaining := int(math.Ceil(float64(trialDays) - elapsedDays))
	if remaining < 0 {
		remaining = 0
	}
	if remaining > trialDays {
		// start в будущем: счётчик не превышает длительность пробного периода.
		remaining = trialDays
	}
	return Decision{Kind: KindTrial, DaysRemaining: remaining}
}
