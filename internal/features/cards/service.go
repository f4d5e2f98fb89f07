// Package cards: service.go содержит бизнес-логику карточек.
package cards

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ghostcards/internal/common"
	"serotonyl.ru/ghostcards/internal/features/decks"
)

const (
	DefaultDueLimit = 20
	MaxDueLimit     = 100
)

// Store: хранилище карточек.
type Store interface {
	Create(ctx context.Context, c *Card) error
	CreateBatch(ctx context.Context, cards []*Card) (int, error)
	Get(ctx context.Context, userID int64, id uuid.UUID) (*Card, error)
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]Card, error)
	ListDue(ctx context.Context, deckID uuid.UUID, now time.Time) ([]Card, error)
	UpdateContent(ctx context.Context, c *Card) error
	SaveReview(ctx context.Context, c *Card) error
	Delete(ctx context.Context, userID int64, id uuid.UUID) error
}

// DeckLookup проверяет, что колода принадлежит пользователю.
type DeckLookup interface {
	Get(ctx context.Context, userID int64, id uuid.UUID) (*decks.Deck, error)
}

// StudyRecorder засчитывает повторение в стрик.
type StudyRecorder interface {
	RecordStudy(ctx context.Context, userID int64, quality int) error
}

// Service управляет карточками.
type Service struct {
	store     Store
	decks     DeckLookup
	study     StudyRecorder
	scheduler *Scheduler
	now       common.Clock
}

// NewService создаёт новый сервис карточек. now == nil означает системные часы.
func NewService(store Store, decks DeckLookup, study StudyRecorder, now common.Clock) *Service {
	if now == nil {
		now = common.SystemClock
	}
	return &Service{
		store:     store,
		decks:     decks,
		study:     study,
		scheduler: NewScheduler(),
		now:       now,
	}
}

func (s *Service) newCard(deckID uuid.UUID, front, back string) *Card {
	return &Card{
		ID:             uuid.New(),
		DeckID:         deckID,
		Front:          front,
		Back:           back,
		EasinessFactor: DefaultEasiness,
		DueAt:          s.now(),
	}
}

func normalize(in Input) (Input, error) {
	in.Front = strings.TrimSpace(in.Front)
	in.Back = strings.TrimSpace(in.Back)
	if err := common.Validate(in); err != nil {
		return Input{}, err
	}
	return in, nil
}

// Create добавляет карточку в колоду пользователя.
func (s *Service) Create(ctx context.Context, userID int64, deckID uuid.UUID, in Input) (*Card, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.decks.Get(ctx, userID, deckID); err != nil {
		return nil, err
	}
	c := s.newCard(deckID, in.Front, in.Back)
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List возвращает все карточки колоды.
func (s *Service) List(ctx context.Context, userID int64, deckID uuid.UUID) ([]Card, error) {
	if _, err := s.decks.Get(ctx, userID, deckID); err != nil {
		return nil, err
	}
	return s.store.ListByDeck(ctx, deckID)
}

// Get возвращает карточку пользователя.
func (s *Service) Get(ctx context.Context, userID int64, id uuid.UUID) (*Card, error) {
	return s.store.Get(ctx, userID, id)
}

// Update меняет стороны карточки. Прогресс SM-2 сохраняется.
func (s *Service) Update(ctx context.Context, userID int64, id uuid.UUID, in Input) (*Card, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	c, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c.Front, c.Back = in.Front, in.Back
	if err := s.store.UpdateContent(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete удаляет карточку пользователя.
func (s *Service) Delete(ctx context.Context, userID int64, id uuid.UUID) error {
	return s.store.Delete(ctx, userID, id)
}

// ClampLimit приводит limit очереди к [1, MaxDueLimit], 0 и меньше дают значение по умолчанию.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultDueLimit
	case limit > MaxDueLimit:
		return MaxDueLimit
	default:
		return limit
	}
}

// Due возвращает очередь повторения колоды.
func (s *Service) Due(ctx context.Context, userID int64, deckID uuid.UUID, limit int) ([]Card, error) {
	if _, err := s.decks.Get(ctx, userID, deckID); err != nil {
		return nil, err
	}
	due, err := s.store.ListDue(ctx, deckID, s.now())
	if err != nil {
		return nil, err
	}
	SortDue(due)

	if limit = ClampLimit(limit); len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// Review применяет SM-2 к карточке и засчитывает повторение в стрик.
func (s *Service) Review(ctx context.Context, userID int64, id uuid.UUID, quality int) (*Card, error) {
	if quality < 0 || quality > 5 {
		return nil, common.ErrInvalidQuality
	}
	c, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	s.scheduler.Apply(c, quality, s.now())
	if err := s.store.SaveReview(ctx, c); err != nil {
		return nil, err
	}

	// Повторение уже сохранено, сбой стрика не должен его откатывать
	if err := s.study.RecordStudy(ctx, userID, quality); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка учёта повторения в стрике")
	}

	log.WithFields(log.Fields{
		"user_id":  userID,
		"card_id":  id,
		"quality":  quality,
		"interval": c.IntervalDays,
	}).Debug("Карточка повторена")
	return c, nil
}

// Import создаёт карточки из .xlsx/.csv файла.
func (s *Service) Import(ctx context.Context, userID int64, deckID uuid.UUID, filename string, r io.Reader) (*ImportResult, error) {
	if _, err := s.decks.Get(ctx, userID, deckID); err != nil {
		return nil, err
	}
	parsed, err := ParseImport(filename, r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		Processed: len(parsed.Rows) + len(parsed.Errors),
		Skipped:   parsed.Skipped,
		Errors:    parsed.Errors,
	}
	if len(parsed.Rows) > 0 {
		batch := make([]*Card, 0, len(parsed.Rows))
		for _, row := range parsed.Rows {
			batch = append(batch, s.newCard(deckID, row.Front, row.Back))
		}
		created, err := s.store.CreateBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("ошибка импорта в колоду %s: %w", deckID, err)
		}
		result.Created = created
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"deck_id": deckID,
		"created": result.Created,
		"errors":  len(result.Errors),
	}).Info("Импорт карточек завершён")
	return result, nil
}
