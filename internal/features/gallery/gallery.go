// Package gallery: gallery.go содержит view-model галереи.
// Собирает стадии, значки, даты и сообщение поверх снимка истории
// и хранит единственное изменяемое состояние: какая запись раскрыта.
package gallery

import (
	"errors"
	"fmt"
	"time"

	"serotonyl.ru/ghostcards/internal/common"
)

// Ошибки нарушения предусловий. Это ошибки вызывающего кода, а не рабочие ситуации.
var (
	// ErrSelectionOutOfRange: индекс вне [0, len(pastStreaks)) последнего Render
	ErrSelectionOutOfRange = errors.New("индекс записи галереи вне диапазона")
	// ErrMalformedPastStreak: endDate < startDate или отрицательная длина
	ErrMalformedPastStreak = errors.New("некорректная запись прошлого стрика")
	// ErrGalleryClosed: галерея уже закрыта
	ErrGalleryClosed = errors.New("галерея закрыта")
)

// Gallery: открытая галерея одного пользователя.
// Не потокобезопасна: вызовы сериализует владелец (Sessions).
type Gallery struct {
	now func() time.Time

	selected    *int // nil: ничего не выбрано
	renderedLen int  // длина последнего отрисованного снимка, для проверки Select
	closed      bool
}

// New создаёт галерею с пустым выбором. now используется только для текущего года.
func New(now common.Clock) *Gallery {
	if now == nil {
		now = common.SystemClock
	}
	return &Gallery{now: now}
}

// Selected возвращает выбранный индекс, если он есть.
func (g *Gallery) Selected() (int, bool) {
	if g.selected == nil {
		return 0, false
	}
	return *g.selected, true
}

// Closed сообщает, закрыта ли галерея.
func (g *Gallery) Closed() bool {
	return g.closed
}

// Render строит данные для отображения. Порядок записей сохраняется как есть,
// входной срез не меняется.
func (g *Gallery) Render(pastStreaks []PastStreak, longestStreak, currentStreak int) (View, error) {
	if g.closed {
		return View{}, ErrGalleryClosed
	}
	for i, ps := range pastStreaks {
		if err := validatePastStreak(ps); err != nil {
			return View{}, fmt.Errorf("запись %d: %w", i, err)
		}
	}

	g.renderedLen = len(pastStreaks)

	currentYear := g.now().Year()
	entries := make([]Entry, len(pastStreaks))
	for i, ps := range pastStreaks {
		entry := Entry{
			Stage:        ClassifyStage(ps.StreakLength),
			StreakLength: ps.StreakLength,
			IsCrowned:    ps.StreakLength == longestStreak,
		}
		if g.selected != nil && *g.selected == i {
			entry.IsSelected = true
			formatted := FormatRange(ps.StartDate, ps.EndDate, currentYear)
			entry.FormattedRange = &formatted
		}
		entries[i] = entry
	}

	return View{
		Summary: Summary{
			Current:   currentStreak,
			Longest:   longestStreak,
			PastCount: len(pastStreaks),
		},
		Badges:    EarnedBadges(longestStreak),
		NextBadge: NextBadgeFor(longestStreak),
		Entries:   entries,
		Message:   BuildMessage(currentStreak, longestStreak),
	}, nil
}

// Select переключает выбор: выбирает index, а повторный выбор того же индекса снимает его.
// Индекс должен попадать в последний отрисованный снимок, иначе состояние не меняется.
func (g *Gallery) Select(index int) error {
	if g.closed {
		return ErrGalleryClosed
	}
	if index < 0 || index >= g.renderedLen {
		return fmt.Errorf("%w: %d (записей: %d)", ErrSelectionOutOfRange, index, g.renderedLen)
	}
	if g.selected != nil && *g.selected == index {
		g.selected = nil
		return nil
	}
	g.selected = &index
	return nil
}

// Close закрывает галерею и выбрасывает выбор. Повторный вызов ничего не делает.
func (g *Gallery) Close() {
	g.selected = nil
	g.renderedLen = 0
	g.closed = true
}

func validatePastStreak(ps PastStreak) error {
	if ps.StreakLength < 0 {
		return fmt.Errorf("%w: длина %d", ErrMalformedPastStreak, ps.StreakLength)
	}
	if ps.EndDate.Before(ps.StartDate) {
		return fmt.Errorf("%w: конец %s раньше начала %s", ErrMalformedPastStreak,
			ps.EndDate.Format("2006-01-02"), ps.StartDate.Format("2006-01-02"))
	}
	return nil
}
