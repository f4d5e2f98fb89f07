// Package cards: repository.go выполняет операции с таблицей cards.
// Доступ к карточке проверяется через владельца колоды.
package cards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/ghostcards/internal/common"
)

const cardColumns = `c.id, c.deck_id, c.front, c.back, c.easiness_factor, c.interval_days,
		       c.repetitions, c.last_quality, c.due_at, c.last_reviewed_at, c.created_at, c.updated_at`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanCard(row pgx.Row) (*Card, error) {
	var c Card
	err := row.Scan(
		&c.ID, &c.DeckID, &c.Front, &c.Back, &c.EasinessFactor, &c.IntervalDays,
		&c.Repetitions, &c.LastQuality, &c.DueAt, &c.LastReviewedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCards(rows pgx.Rows) ([]Card, error) {
	defer rows.Close()

	cards := []Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования карточки: %w", err)
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}

// Create сохраняет новую карточку.
func (r *Repository) Create(ctx context.Context, c *Card) error {
	query := `
		INSERT INTO cards (id, deck_id, front, back, easiness_factor, interval_days, repetitions, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		c.ID, c.DeckID, c.Front, c.Back, c.EasinessFactor, c.IntervalDays, c.Repetitions, c.DueAt,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания карточки: %w", err)
	}
	return nil
}

// CreateBatch вставляет карточки одной командой COPY в транзакции.
func (r *Repository) CreateBatch(ctx context.Context, cards []*Card) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	rows := make([][]any, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, []any{c.ID, c.DeckID, c.Front, c.Back, c.EasinessFactor, c.IntervalDays, c.Repetitions, c.DueAt})
	}
	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"cards"},
		[]string{"id", "deck_id", "front", "back", "easiness_factor", "interval_days", "repetitions", "due_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("ошибка импорта карточек: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка фиксации импорта: %w", err)
	}
	return int(n), nil
}

// Get возвращает карточку, если её колода принадлежит пользователю.
func (r *Repository) Get(ctx context.Context, userID int64, id uuid.UUID) (*Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards c
		JOIN decks d ON d.id = c.deck_id
		WHERE c.id = $1 AND d.user_id = $2
	`
	c, err := scanCard(r.db.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения карточки %s: %w", id, err)
	}
	return c, nil
}

// ListByDeck возвращает карточки колоды в порядке создания.
func (r *Repository) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards c WHERE c.deck_id = $1 ORDER BY c.created_at, c.id`
	rows, err := r.db.Query(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения карточек: %w", err)
	}
	return collectCards(rows)
}

// ListDue возвращает карточки колоды, срок повторения которых наступил.
func (r *Repository) ListDue(ctx context.Context, deckID uuid.UUID, now time.Time) ([]Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards c WHERE c.deck_id = $1 AND c.due_at <= $2`
	rows, err := r.db.Query(ctx, query, deckID, now)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения очереди повторения: %w", err)
	}
	return collectCards(rows)
}

// UpdateContent меняет стороны карточки.
func (r *Repository) UpdateContent(ctx context.Context, c *Card) error {
	query := `
		UPDATE cards SET front = $2, back = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, c.ID, c.Front, c.Back).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("ошибка обновления карточки %s: %w", c.ID, err)
	}
	return nil
}

// SaveReview сохраняет состояние SM-2 после повторения.
func (r *Repository) SaveReview(ctx context.Context, c *Card) error {
	query := `
		UPDATE cards
		SET easiness_factor = $2, interval_days = $3, repetitions = $4,
		    last_quality = $5, due_at = $6, last_reviewed_at = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		c.ID, c.EasinessFactor, c.IntervalDays, c.Repetitions, c.LastQuality, c.DueAt, c.LastReviewedAt,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("ошибка сохранения повторения %s: %w", c.ID, err)
	}
	return nil
}

// Delete удаляет карточку пользователя.
func (r *Repository) Delete(ctx context.Context, userID int64, id uuid.UUID) error {
	query := `
		DELETE FROM cards c
		USING decks d
		WHERE d.id = c.deck_id AND c.id = $1 AND d.user_id = $2
	`
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления карточки %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}
