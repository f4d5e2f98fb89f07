// Package cards управляет карточками: CRUD, очередь повторения, SM-2 и импорт.
package cards

import (
	"time"

	"github.com/google/uuid"
)

// Card: карточка колоды вместе с состоянием повторения SM-2.
type Card struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	DeckID         uuid.UUID  `db:"deck_id" json:"deckId"`
	Front          string     `db:"front" json:"front"`
	Back           string     `db:"back" json:"back"`
	EasinessFactor float64    `db:"easiness_factor" json:"easinessFactor"`
	IntervalDays   int        `db:"interval_days" json:"intervalDays"`
	Repetitions    int        `db:"repetitions" json:"repetitions"`
	LastQuality    *int       `db:"last_quality" json:"lastQuality,omitempty"`
	DueAt          time.Time  `db:"due_at" json:"dueAt"`
	LastReviewedAt *time.Time `db:"last_reviewed_at" json:"lastReviewedAt,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}

// Reviewed сообщает, повторялась ли карточка хоть раз.
func (c *Card) Reviewed() bool {
	return c.LastReviewedAt != nil
}

// Input: стороны карточки, которые задаёт пользователь.
type Input struct {
	Front string `json:"front" validate:"required,max=2000"`
	Back  string `json:"back" validate:"required,max=2000"`
}

// ReviewInput: оценка ответа по шкале SM-2.
type ReviewInput struct {
	Quality *int `json:"quality" validate:"required"`
}

// ImportResult: итог импорта файла.
type ImportResult struct {
	Processed int      `json:"processed"`
	Created   int      `json:"created"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
}
