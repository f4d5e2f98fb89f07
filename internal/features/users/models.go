// Package users управляет пользователями сервиса: идентификацией и привязкой Telegram.
// models.go описывает структуру данных таблицы users.
package users

import "time"

// User представляет пользователя в базе данных.
// Запись создаётся при первом запросе с новым X-User-ID.
type User struct {
	ID         int64  `db:"id" json:"id"`
	ExternalID string `db:"external_id" json:"externalId"` // Значение X-User-ID
	// Чат для напоминаний, nil пока пользователь не привязал Telegram
	TelegramChatID *int64    `db:"telegram_chat_id" json:"telegramChatId,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// HasTelegram сообщает, привязан ли Telegram-чат.
func (u *User) HasTelegram() bool {
	return u.TelegramChatID != nil && *u.TelegramChatID != 0
}
