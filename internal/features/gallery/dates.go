// Package gallery: dates.go форматирует даты для карточек прошлых серий.
package gallery

import (
	"strings"
	"time"
)

// UnknownDate: что показываем вместо пустой или нераспознанной даты.
const UnknownDate = "Unknown"

// dateLayouts: форматы, которые принимает FormatDate.
var dateLayouts = []string{
	"2006-01-02",          // <input type="date">
	time.RFC3339,          // полная метка времени
	"2006-01-02T15:04:05", // без часового пояса
}

// ParseDate разбирает ISO-дату. Пустая строка и мусор дают ok=false.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate рендерит ISO-дату как "Mar 15". Год добавляется ("Mar 15, 2024"),
// только если он отличается от currentYear. Текущий год передаётся явно.
func FormatDate(raw string, currentYear int) string {
	t, ok := ParseDate(raw)
	if !ok {
		return UnknownDate
	}
	return FormatTime(t, currentYear)
}

// FormatTime: то же, что FormatDate, но для уже разобранной даты.
// Нулевое время считается отсутствующей датой.
func FormatTime(t time.Time, currentYear int) string {
	if t.IsZero() {
		return UnknownDate
	}
	if t.Year() != currentYear {
		return t.Format("Jan 2, 2006")
	}
	return t.Format("Jan 2")
}

// FormatRange рендерит диапазон дат: "Mar 1 - Mar 15".
func FormatRange(start, end time.Time, currentYear int) string {
	return FormatTime(start, currentYear) + " - " + FormatTime(end, currentYear)
}
