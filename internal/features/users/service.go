// Package users: service.go содержит бизнес-логику пользователей.
package users

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ghostcards/internal/common"
)

// Store: хранилище пользователей.
type Store interface {
	Upsert(ctx context.Context, externalID string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	SetTelegramChat(ctx context.Context, id int64, chatID *int64) error
}

// Service управляет пользователями.
type Service struct {
	store Store
}

// NewService создаёт новый сервис пользователей.
func NewService(store Store) *Service {
	return &Service{store: store}
}

type externalIdentity struct {
	ExternalID string `validate:"required,max=128,printascii"`
}

// Ensure гарантирует, что пользователь с таким X-User-ID есть в базе.
func (s *Service) Ensure(ctx context.Context, externalID string) (*User, error) {
	if err := common.Validate(externalIdentity{ExternalID: externalID}); err != nil {
		return nil, fmt.Errorf("%w: X-User-ID", common.ErrUnauthorized)
	}
	return s.store.Upsert(ctx, externalID)
}

// Get возвращает пользователя по внутреннему ID.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.store.GetByID(ctx, id)
}

// LinkTelegram привязывает чат, в который будут приходить напоминания.
// chatID == 0 отвязывает Telegram.
func (s *Service) LinkTelegram(ctx context.Context, id, chatID int64) (*User, error) {
	var value *int64
	if chatID != 0 {
		value = &chatID
	}
	if err := s.store.SetTelegramChat(ctx, id, value); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": id,
		"linked":  value != nil,
	}).Info("Telegram-чат пользователя обновлён")

	return s.store.GetByID(ctx, id)
}

// TelegramChat возвращает чат пользователя или common.ErrNoTelegramChat.
func (s *Service) TelegramChat(ctx context.Context, id int64) (int64, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if !u.HasTelegram() {
		return 0, common.ErrNoTelegramChat
	}
	return *u.TelegramChatID, nil
}
