// Package gallery строит «галерею призраков»: историю завершённых стриков,
// стадии призрака, значки достижений и мотивационное сообщение.
// models.go описывает входные записи и структуру данных для отображения.
package gallery

import "time"

// PastStreak: завершённый стрик. Создаётся трекером стриков, когда день пропущен,
// и больше никогда не меняется. Галерея читает его только для отображения.
type PastStreak struct {
	StreakLength int       `json:"streakLength"` // Длина серии в днях
	StartDate    time.Time `json:"startDate"`    // Первый день серии
	EndDate      time.Time `json:"endDate"`      // Последний день серии (>= StartDate)
}

// StreakStage: косметическая стадия призрака для длины стрика.
type StreakStage struct {
	Name         string  `json:"name"`
	Symbol       string  `json:"symbol"`
	VisualWeight float64 `json:"visualWeight"` // (0, 1]
}

// Badge: значок достижения за лучший стрик.
type Badge struct {
	Symbol    string `json:"symbol"`
	Label     string `json:"label"`
	Threshold int    `json:"threshold"`
}

// NextBadge: ближайший ещё не полученный значок.
type NextBadge struct {
	Badge
	DaysLeft int `json:"daysLeft"`
}

// Summary: сводка: текущая серия, рекорд, количество прошлых серий.
type Summary struct {
	Current   int `json:"current"`
	Longest   int `json:"longest"`
	PastCount int `json:"pastCount"`
}

// Entry: одна прошлая серия в галерее.
type Entry struct {
	Stage          StreakStage `json:"stage"`
	StreakLength   int         `json:"streakLength"`
	IsSelected     bool        `json:"isSelected"`
	IsCrowned      bool        `json:"isCrowned"`
	FormattedRange *string     `json:"formattedRange,omitempty"` // Только у выбранной записи
}

// MessageVariant: вариант мотивационного сообщения.
type MessageVariant string

const (
	MessageStartNew   MessageVariant = "start_new"
	MessageBeatRecord MessageVariant = "beat_record"
	MessageAtBest     MessageVariant = "at_best"
)

// MessageParams: параметры сообщения. Delta есть только у beat_record.
type MessageParams struct {
	Delta *int `json:"delta,omitempty"`
}

// Message: мотивационное сообщение под галереей.
type Message struct {
	Variant MessageVariant `json:"variant"`
	Params  MessageParams  `json:"params"`
	Text    string         `json:"text"`
}

// View: данные для отрисовки галереи. Только для чтения.
type View struct {
	Summary   Summary    `json:"summary"`
	Badges    []Badge    `json:"badges"`
	NextBadge *NextBadge `json:"nextBadge,omitempty"`
	Entries   []Entry    `json:"entries"`
	Message   Message    `json:"message"`
}
