package cards

import (
	"sort"
	"time"
)

// DefaultEasiness: стартовый фактор лёгкости новой карточки.
const DefaultEasiness = 2.5

// Scheduler реализует алгоритм SuperMemo-2.
type Scheduler struct {
	// Ответы с оценкой от PassThreshold считаются успешными
	PassThreshold int
	// Нижняя граница фактора лёгкости
	MinEasiness float64
	// Максимальный интервал повторения в днях
	MaxInterval int
	// Интервалы для первых успешных повторений, в днях
	InitialIntervals []int
}

// NewScheduler создаёт планировщик с настройками по умолчанию.
func NewScheduler() *Scheduler {
	return &Scheduler{
		PassThreshold:    3,
		MinEasiness:      1.3,
		MaxInterval:      365,
		InitialIntervals: []int{1, 2, 3, 7, 10, 15, 20, 30},
	}
}

// Apply обновляет состояние карточки после ответа с оценкой quality (0..5).
func (s *Scheduler) Apply(c *Card, quality int, now time.Time) {
	q := float64(5 - quality)
	ef := c.EasinessFactor
	if ef == 0 {
		ef = DefaultEasiness
	}
	ef += 0.1 - q*(0.08+q*0.02)
	if ef < s.MinEasiness {
		ef = s.MinEasiness
	}
	c.EasinessFactor = ef

	if quality >= s.PassThreshold {
		c.Repetitions++
		if c.Repetitions <= len(s.InitialIntervals) {
			c.IntervalDays = s.InitialIntervals[c.Repetitions-1]
		} else {
			c.IntervalDays = int(float64(c.IntervalDays) * ef)
		}
		if c.IntervalDays > s.MaxInterval {
			c.IntervalDays = s.MaxInterval
		}
	} else {
		// Ошибка: повторяем завтра и начинаем серию заново
		c.Repetitions = 0
		c.IntervalDays = 1
	}

	c.LastQuality = &quality
	reviewed := now
	c.LastReviewedAt = &reviewed
	c.DueAt = now.AddDate(0, 0, c.IntervalDays)
}

// SortDue упорядочивает очередь повторения:
// сначала новые карточки, затем с меньшим фактором лёгкости, затем давно просроченные.
func SortDue(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		ri, rj := cards[i].Reviewed(), cards[j].Reviewed()
		if ri != rj {
			return !ri
		}
		if cards[i].EasinessFactor != cards[j].EasinessFactor {
			return cards[i].EasinessFactor < cards[j].EasinessFactor
		}
		return cards[i].DueAt.Before(cards[j].DueAt)
	})
}
