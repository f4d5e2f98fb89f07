// Package users: repository.go отвечает за операции с таблицей users.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/ghostcards/internal/common"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Upsert возвращает пользователя по external_id, создавая его при первом обращении.
func (r *Repository) Upsert(ctx context.Context, externalID string) (*User, error) {
	query := `
		INSERT INTO users (external_id)
		VALUES ($1)
		ON CONFLICT (external_id) DO UPDATE
		SET updated_at = users.updated_at
		RETURNING id, external_id, telegram_chat_id, created_at, updated_at
	`
	var u User
	err := r.db.QueryRow(ctx, query, externalID).Scan(
		&u.ID, &u.ExternalID, &u.TelegramChatID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания/чтения пользователя (external_id=%s): %w", externalID, err)
	}
	return &u, nil
}

// GetByID: если не найден, возвращает common.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, external_id, telegram_chat_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var u User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.ExternalID, &u.TelegramChatID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения пользователя (id=%d): %w", id, err)
	}
	return &u, nil
}

// SetTelegramChat привязывает (или отвязывает при nil) Telegram-чат.
func (r *Repository) SetTelegramChat(ctx context.Context, id int64, chatID *int64) error {
	query := `UPDATE users SET telegram_chat_id = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, chatID)
	if err != nil {
		return fmt.Errorf("ошибка привязки telegram (id=%d): %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}
