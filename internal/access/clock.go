package access

import "time"

// Clock отдаёт текущий момент времени. В тестах подменяется фиксированным временем.
type Clock interface {
	Now() time.Time
}

// SystemClock реализует Clock через time.Now.
type SystemClock struct{}

// Now возвращает текущее время в UTC.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock всегда возвращает заданный момент. Используется в тестах.
type FixedClock struct {
	T time.Time
}

// Now возвращает зафиксированный момент.
func (c FixedClock) Now() time.Time { return c.T }
