// Package notify доставляет напоминания пользователям.
// TelegramSender пишет в привязанный чат через Bot API, LogSender только логирует.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// Sender отправляет текст пользователю.
type Sender interface {
	Send(ctx context.Context, userID int64, text string) error
}

// ChatResolver находит Telegram-чат пользователя.
type ChatResolver interface {
	TelegramChat(ctx context.Context, userID int64) (int64, error)
}

// botAPI: часть *tgbotapi.BotAPI, которая нужна для отправки.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender отправляет напоминания через Telegram Bot API.
type TelegramSender struct {
	api   botAPI
	chats ChatResolver
}

// NewTelegramSender авторизуется в Bot API по токену.
func NewTelegramSender(token string, debug bool, chats ChatResolver) (*TelegramSender, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	api.Debug = debug
	log.Infof("Напоминания отправляются от имени @%s", api.Self.UserName)

	return &TelegramSender{api: api, chats: chats}, nil
}

// Send находит чат пользователя и отправляет в него текст.
// Без привязанного чата возвращает common.ErrNoTelegramChat из ChatResolver.
func (s *TelegramSender) Send(ctx context.Context, userID int64, text string) error {
	chatID, err := s.chats.TelegramChat(ctx, userID)
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("ошибка отправки в telegram (user_id=%d): %w", userID, err)
	}

	log.WithField("user_id", userID).Debug("Напоминание отправлено в Telegram")
	return nil
}

// LogSender пишет напоминания в лог. Используется, когда TELEGRAM_BOT_TOKEN не задан.
type LogSender struct{}

// Send логирует напоминание.
func (LogSender) Send(_ context.Context, userID int64, text string) error {
	log.WithFields(log.Fields{
		"user_id": userID,
		"text":    text,
	}).Info("Напоминание (без Telegram)")
	return nil
}
