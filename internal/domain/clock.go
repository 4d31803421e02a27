package domain

import "time"

// Clock выдаёт текущее время для всех временных меток агрегатов.
type Clock interface {
	Now() time.Time
}

// ClockFunc позволяет использовать обычную функцию как Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock возвращает текущее время в UTC с точностью до микросекунд,
// с которой PostgreSQL хранит timestamptz.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
