// Package decks: service.go содержит бизнес-логику колод.
package decks

import (
	"context"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ghostcards/internal/common"
)

// Store: хранилище колод.
type Store interface {
	Create(ctx context.Context, d *Deck) error
	List(ctx context.Context, userID int64) ([]Deck, error)
	Get(ctx context.Context, userID int64, id uuid.UUID) (*Deck, error)
	Update(ctx context.Context, d *Deck) error
	Delete(ctx context.Context, userID int64, id uuid.UUID) error
}

// Service управляет колодами.
type Service struct {
	store Store
}

// NewService создаёт новый сервис колод.
func NewService(store Store) *Service {
	return &Service{store: store}
}

func normalize(in Input) (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := common.Validate(in); err != nil {
		return Input{}, err
	}
	return in, nil
}

// Create создаёт колоду.
func (s *Service) Create(ctx context.Context, userID int64, in Input) (*Deck, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	d := &Deck{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"deck_id": d.ID,
	}).Info("Колода создана")
	return d, nil
}

// List возвращает все колоды пользователя.
func (s *Service) List(ctx context.Context, userID int64) ([]Deck, error) {
	return s.store.List(ctx, userID)
}

// Get возвращает колоду, если она принадлежит пользователю.
func (s *Service) Get(ctx context.Context, userID int64, id uuid.UUID) (*Deck, error) {
	return s.store.Get(ctx, userID, id)
}

// Update переименовывает колоду.
func (s *Service) Update(ctx context.Context, userID int64, id uuid.UUID, in Input) (*Deck, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	d, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	d.Name = in.Name
	d.Description = in.Description
	if err := s.store.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete удаляет колоду со всеми карточками.
func (s *Service) Delete(ctx context.Context, userID int64, id uuid.UUID) error {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"user_id": userID,
		"deck_id": id,
	}).Info("Колода удалена")
	return nil
}
