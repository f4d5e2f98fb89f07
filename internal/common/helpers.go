// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: плюрализация, работа с датами в часовом поясе приложения.
package common

import (
	"fmt"
	"time"
)

// PluralizeDays возвращает "day" для 1 и "days" для остальных чисел.
//
// Примеры:
//
//	PluralizeDays(1)  → "day"
//	PluralizeDays(0)  → "days"
//	PluralizeDays(21) → "days"
func PluralizeDays(n int) string {
	if n == 1 || n == -1 {
		return "day"
	}
	return "days"
}

// FormatDays форматирует число дней: FormatDays(7) → "7 days".
func FormatDays(n int) string {
	return fmt.Sprintf("%d %s", n, PluralizeDays(n))
}

// PluralizeCards возвращает правильную форму слова «card».
func PluralizeCards(n int) string {
	if n == 1 || n == -1 {
		return "card"
	}
	return "cards"
}

// Clock возвращает текущее время. В тестах подменяется фиксированным.
type Clock func() time.Time

// SystemClock: часы по умолчанию.
func SystemClock() time.Time {
	return time.Now()
}

// DateOf возвращает только дату (полночь) в заданном часовом поясе.
func DateOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween возвращает число календарных дней от a до b (b - a).
// Обе даты сначала приводятся к полуночи в UTC, поэтому переходы на летнее время не влияют.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
