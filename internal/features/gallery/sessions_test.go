package gallery

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type manualClock struct{ t time.Time }

func (c *manualClock) Now() time.Time { return c.t }

func TestSessions_OpenSelectClose(t *testing.T) {
	clock := &manualClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	s := NewSessions(5*time.Minute, clock.Now)

	id := s.Open(42)
	err := s.With(42, id, func(g *Gallery) error {
		if _, err := g.Render(samplePast(), 15, 0); err != nil {
			return err
		}
		return g.Select(1)
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}

	err = s.With(42, id, func(g *Gallery) error {
		if idx, ok := g.Selected(); !ok || idx != 1 {
			t.Fatalf("selection lost between gestures: %d/%v", idx, ok)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}

	if err := s.Close(42, id); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.With(42, id, func(*Gallery) error { return nil }); !errors.Is(err, ErrGalleryNotFound) {
		t.Fatalf("expected ErrGalleryNotFound after close, got %v", err)
	}
}

func TestSessions_ForeignUser(t *testing.T) {
	s := NewSessions(time.Minute, nil)
	id := s.Open(1)
	if err := s.With(2, id, func(*Gallery) error { return nil }); !errors.Is(err, ErrGalleryNotFound) {
		t.Fatalf("expected ErrGalleryNotFound for foreign user, got %v", err)
	}
	if err := s.Close(2, id); !errors.Is(err, ErrGalleryNotFound) {
		t.Fatalf("expected ErrGalleryNotFound on foreign close, got %v", err)
	}
	if err := s.With(1, uuid.New(), func(*Gallery) error { return nil }); !errors.Is(err, ErrGalleryNotFound) {
		t.Fatalf("expected ErrGalleryNotFound for unknown id, got %v", err)
	}
}

func TestSessions_ExpiryAndSweep(t *testing.T) {
	clock := &manualClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	s := NewSessions(5*time.Minute, clock.Now)

	stale := s.Open(1)
	fresh := s.Open(1)

	clock.t = clock.t.Add(4 * time.Minute)
	// касание продлевает таймаут
	if err := s.With(1, fresh, func(*Gallery) error { return nil }); err != nil {
		t.Fatalf("With: %v", err)
	}

	clock.t = clock.t.Add(2 * time.Minute)
	if removed := s.Sweep(); removed != 1 {
		t.Fatalf("Sweep removed %d, want 1", removed)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 open gallery, got %d", s.Len())
	}
	if err := s.With(1, stale, func(*Gallery) error { return nil }); !errors.Is(err, ErrGalleryNotFound) {
		t.Fatalf("expected stale gallery gone, got %v", err)
	}

	clock.t = clock.t.Add(10 * time.Minute)
	if err := s.With(1, fresh, func(*Gallery) error { return nil }); !errors.Is(err, ErrGalleryNotFound) {
		t.Fatalf("expected expired gallery rejected on access, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected expired gallery removed on access, got %d", s.Len())
	}
}
