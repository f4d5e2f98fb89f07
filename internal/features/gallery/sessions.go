// Package gallery: sessions.go хранит открытые галереи в памяти.
// У каждой галереи свой выбор записи и таймаут простоя; протухшие сессии
// выметает крон (Sweep).
package gallery

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"serotonyl.ru/ghostcards/internal/common"
)

// ErrGalleryNotFound: галереи нет, она истекла или принадлежит другому пользователю
var ErrGalleryNotFound = errors.New("галерея не найдена")

type session struct {
	userID    int64
	gallery   *Gallery
	expiresAt time.Time
}

// Sessions: реестр открытых галерей (in-memory).
type Sessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	ttl      time.Duration
	now      common.Clock
}

// NewSessions создаёт реестр с заданным таймаутом простоя.
func NewSessions(ttl time.Duration, now common.Clock) *Sessions {
	if now == nil {
		now = common.SystemClock
	}
	return &Sessions{
		sessions: make(map[uuid.UUID]*session),
		ttl:      ttl,
		now:      now,
	}
}

// Open открывает новую галерею с пустым выбором.
func (s *Sessions) Open(userID int64) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.sessions[id] = &session{
		userID:    userID,
		gallery:   New(s.now),
		expiresAt: s.now().Add(s.ttl),
	}
	return id
}

// With выполняет fn над галереей под блокировкой реестра и продлевает её таймаут.
// Так один жест пользователя не пересекается с другим.
func (s *Sessions) With(userID int64, id uuid.UUID, fn func(g *Gallery) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(userID, id)
	if err != nil {
		return err
	}
	sess.expiresAt = s.now().Add(s.ttl)
	return fn(sess.gallery)
}

// Close закрывает галерею и удаляет её из реестра.
func (s *Sessions) Close(userID int64, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(userID, id)
	if err != nil {
		return err
	}
	sess.gallery.Close()
	delete(s.sessions, id)
	return nil
}

// Sweep удаляет истёкшие галереи и возвращает, сколько удалено.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			sess.gallery.Close()
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len возвращает число открытых галерей.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// lookup вызывается под s.mu.
func (s *Sessions) lookup(userID int64, id uuid.UUID) (*session, error) {
	sess, ok := s.sessions[id]
	if !ok || sess.userID != userID {
		return nil, ErrGalleryNotFound
	}
	if s.now().After(sess.expiresAt) {
		sess.gallery.Close()
		delete(s.sessions, id)
		return nil, ErrGalleryNotFound
	}
	return sess, nil
}
