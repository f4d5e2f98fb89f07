// Package decks управляет колодами карточек пользователя.
package decks

import (
	"time"

	"github.com/google/uuid"
)

// Deck: колода карточек. Принадлежит одному пользователю.
type Deck struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"-"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CardCount   int       `db:"card_count" json:"cardCount"` // Считается запросом, в таблице нет
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Input: поля колоды, которые задаёт пользователь.
type Input struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=1000"`
}
