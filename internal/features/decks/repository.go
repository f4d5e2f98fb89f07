// Package decks: repository.go выполняет операции с таблицей decks.
// Все запросы фильтруют по user_id, чужая колода выглядит как отсутствующая.
package decks

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/ghostcards/internal/common"
)

const deckSelect = `
		SELECT d.id, d.user_id, d.name, d.description,
		       (SELECT COUNT(*) FROM cards c WHERE c.deck_id = d.id) AS card_count,
		       d.created_at, d.updated_at
		FROM decks d`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanDeck(row pgx.Row) (*Deck, error) {
	var d Deck
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &d.CardCount, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create сохраняет новую колоду и заполняет created_at/updated_at.
func (r *Repository) Create(ctx context.Context, d *Deck) error {
	query := `
		INSERT INTO decks (id, user_id, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, d.ID, d.UserID, d.Name, d.Description).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания колоды: %w", err)
	}
	return nil
}

// List возвращает колоды пользователя, новые сверху.
func (r *Repository) List(ctx context.Context, userID int64) ([]Deck, error) {
	rows, err := r.db.Query(ctx, deckSelect+` WHERE d.user_id = $1 ORDER BY d.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения колод: %w", err)
	}
	defer rows.Close()

	decks := []Deck{}
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования колоды: %w", err)
		}
		decks = append(decks, *d)
	}
	return decks, rows.Err()
}

// Get возвращает колоду пользователя или common.ErrNotFound.
func (r *Repository) Get(ctx context.Context, userID int64, id uuid.UUID) (*Deck, error) {
	d, err := scanDeck(r.db.QueryRow(ctx, deckSelect+` WHERE d.id = $1 AND d.user_id = $2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения колоды %s: %w", id, err)
	}
	return d, nil
}

// Update меняет название и описание.
func (r *Repository) Update(ctx context.Context, d *Deck) error {
	query := `
		UPDATE decks
		SET name = $3, description = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, d.ID, d.UserID, d.Name, d.Description).Scan(&d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("ошибка обновления колоды %s: %w", d.ID, err)
	}
	return nil
}

// Delete удаляет колоду вместе с карточками (ON DELETE CASCADE).
func (r *Repository) Delete(ctx context.Context, userID int64, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM decks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления колоды %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}
