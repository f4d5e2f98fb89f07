// Package streak: service.go содержит основную бизнес-логику стрик-системы.
// Сервис считает повторения, закрывает дневную норму, архивирует прерванные
// серии и рассылает напоминания.
package streak

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ghostcards/internal/common"
	"serotonyl.ru/ghostcards/internal/config"
	"serotonyl.ru/ghostcards/internal/features/gallery"
)

// Store: хранилище стриков. В проде это *Repository, в тестах фейк.
type Store interface {
	Create(ctx context.Context, userID int64) error
	GetByUserID(ctx context.Context, userID int64) (*Streak, error)
	IncrementReviews(ctx context.Context, userID int64, at time.Time) (*Streak, error)
	CompleteQuota(ctx context.Context, c QuotaCompletion) (bool, error)
	GetAll(ctx context.Context) ([]*Streak, error)
	GetByMinStreak(ctx context.Context, minStreak int) ([]*Streak, error)
	BreakStreak(ctx context.Context, past PastStreak) error
	ResetDaily(ctx context.Context) error
	MarkReminderSent(ctx context.Context, userID int64) error
	ListPast(ctx context.Context, userID int64) ([]PastStreak, error)
}

// Notifier доставляет напоминание пользователю.
type Notifier interface {
	Send(ctx context.Context, userID int64, text string) error
}

// Service управляет стрик-системой.
type Service struct {
	store Store
	cfg   *config.Config
	loc   *time.Location
	now   common.Clock
}

// NewService создаёт новый сервис стриков. now == nil означает системные часы.
func NewService(store Store, cfg *config.Config, now common.Clock) *Service {
	if now == nil {
		now = common.SystemClock
	}
	return &Service{
		store: store,
		cfg:   cfg,
		loc:   cfg.Location(),
		now:   now,
	}
}

func (s *Service) today() time.Time {
	return common.DateOf(s.now(), s.loc)
}

// RecordStudy засчитывает одно повторение карточки.
//
// Алгоритм:
//  1. Оценка вне шкалы не считается
//  2. Запись стрика создаётся при первом повторении
//  3. Если норма уже выполнена сегодня, дальше не считаем
//  4. Увеличиваем счётчик
//  5. Если достигнута норма (STREAK_REVIEWS_NEED), продлеваем серию
func (s *Service) RecordStudy(ctx context.Context, userID int64, quality int) error {
	if !CountsForStreak(quality) {
		return nil
	}

	streak, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	if streak.QuotaCompletedToday {
		return nil
	}

	updated, err := s.store.IncrementReviews(ctx, userID, s.now())
	if err != nil {
		return err
	}
	// параллельный запрос мог закрыть норму между чтением и инкрементом
	if updated.QuotaCompletedToday {
		return nil
	}

	if updated.ReviewsToday >= s.cfg.StreakReviewsNeed {
		return s.completeQuota(ctx, updated)
	}
	return nil
}

func (s *Service) getOrCreate(ctx context.Context, userID int64) (*Streak, error) {
	streak, err := s.store.GetByUserID(ctx, userID)
	if err == nil {
		return streak, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if err := s.store.Create(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.GetByUserID(ctx, userID)
}

// completeQuota выполняет норму дня: увеличивает стрик и обновляет рекорд.
func (s *Service) completeQuota(ctx context.Context, streak *Streak) error {
	today := s.today()

	newStreak := streak.CurrentStreak + 1
	longest := streak.LongestStreak
	if newStreak > longest {
		longest = newStreak
	}

	startedOn := today
	if streak.CurrentStreak > 0 && streak.StreakStartedOn != nil {
		startedOn = *streak.StreakStartedOn
	}

	applied, err := s.store.CompleteQuota(ctx, QuotaCompletion{
		UserID:         streak.UserID,
		NewStreak:      newStreak,
		LongestStreak:  longest,
		TotalCompleted: streak.TotalQuotasCompleted + 1,
		StartedOn:      startedOn,
		QuotaDate:      today,
	})
	if err != nil {
		return fmt.Errorf("ошибка завершения нормы: %w", err)
	}
	if !applied {
		log.WithField("user_id", streak.UserID).Debug("Норма уже засчитана другим запросом")
		return nil
	}

	log.WithFields(log.Fields{
		"user_id": streak.UserID,
		"day":     newStreak,
		"longest": longest,
	}).Debug("Дневная норма выполнена")
	return nil
}

// GetStatus возвращает прогресс стрика. У пользователя без записи всё по нулям.
func (s *Service) GetStatus(ctx context.Context, userID int64) (Status, error) {
	streak, err := s.store.GetByUserID(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		streak = &Streak{UserID: userID}
	} else if err != nil {
		return Status{}, err
	}

	remaining := s.cfg.StreakReviewsNeed - streak.ReviewsToday
	if remaining < 0 || streak.QuotaCompletedToday {
		remaining = 0
	}
	return Status{
		Current:             streak.CurrentStreak,
		Longest:             streak.LongestStreak,
		ReviewsToday:        streak.ReviewsToday,
		ReviewsNeed:         s.cfg.StreakReviewsNeed,
		Remaining:           remaining,
		QuotaCompletedToday: streak.QuotaCompletedToday,
		TotalQuotas:         streak.TotalQuotasCompleted,
	}, nil
}

// History собирает данные для галереи: архив серий, рекорд и текущую серию.
func (s *Service) History(ctx context.Context, userID int64) (History, error) {
	h := History{PastStreaks: []gallery.PastStreak{}}

	streak, err := s.store.GetByUserID(ctx, userID)
	switch {
	case errors.Is(err, common.ErrNotFound):
	case err != nil:
		return History{}, err
	default:
		h.Current = streak.CurrentStreak
		h.Longest = streak.LongestStreak
	}

	past, err := s.store.ListPast(ctx, userID)
	if err != nil {
		return History{}, err
	}
	for _, p := range past {
		h.PastStreaks = append(h.PastStreaks, p.ToGallery())
		if p.StreakLength > h.Longest {
			h.Longest = p.StreakLength
		}
	}
	return h, nil
}

// DailyReset архивирует и обнуляет серии тех, кто не выполнил норму,
// затем сбрасывает дневные счётчики у всех.
// Запускается кроном в полночь по APP_TIMEZONE.
func (s *Service) DailyReset(ctx context.Context) error {
	log.Info("Запуск ежедневного сброса стриков")

	streaks, err := s.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("ошибка получения стриков: %w", err)
	}

	brokenCount := 0
	for _, streak := range streaks {
		if streak.QuotaCompletedToday || streak.CurrentStreak <= 0 {
			continue
		}
		if err := s.store.BreakStreak(ctx, s.archiveRecord(streak)); err != nil {
			log.WithError(err).WithField("user_id", streak.UserID).Error("Ошибка сброса стрика")
			continue
		}
		brokenCount++
	}

	if err := s.store.ResetDaily(ctx); err != nil {
		return fmt.Errorf("ошибка сброса дневных счётчиков: %w", err)
	}

	log.WithFields(log.Fields{
		"total":  len(streaks),
		"broken": brokenCount,
	}).Info("Ежедневный сброс завершён")
	return nil
}

// archiveRecord строит запись архива для прерванной серии.
// Конец серии: последний день с выполненной нормой (иначе вчера).
// Начало: streak_started_on, иначе отсчитываем длину серии назад от конца.
func (s *Service) archiveRecord(streak *Streak) PastStreak {
	end := s.today().AddDate(0, 0, -1)
	if streak.LastQuotaCompletion != nil {
		end = common.DateOf(*streak.LastQuotaCompletion, s.loc)
	}

	start := end.AddDate(0, 0, -(streak.CurrentStreak - 1))
	if streak.StreakStartedOn != nil {
		start = common.DateOf(*streak.StreakStartedOn, s.loc)
	}
	if start.After(end) {
		start = end
	}

	return PastStreak{
		UserID:       streak.UserID,
		StreakLength: streak.CurrentStreak,
		StartDate:    start,
		EndDate:      end,
	}
}

// SendReminders отправляет напоминания пользователям с длинными стриками,
// которые сегодня ещё не выполнили норму и давно не занимались.
// Запускается кроном каждый час.
func (s *Service) SendReminders(ctx context.Context, notifier Notifier) error {
	longStreaks, err := s.store.GetByMinStreak(ctx, s.cfg.StreakReminderThreshold)
	if err != nil {
		return err
	}

	now := s.now()
	sent := 0
	for _, streak := range longStreaks {
		if streak.QuotaCompletedToday || streak.ReminderSentToday {
			continue
		}
		if streak.LastReviewAt != nil {
			inactive := now.Sub(*streak.LastReviewAt).Hours()
			if inactive < float64(s.cfg.StreakInactiveHours) {
				continue
			}
		}

		text := fmt.Sprintf(
			"⚠️ Your ghost is %s old! Review %d %s today to keep your streak alive.",
			common.FormatDays(streak.CurrentStreak),
			s.cfg.StreakReviewsNeed-streak.ReviewsToday,
			common.PluralizeCards(s.cfg.StreakReviewsNeed-streak.ReviewsToday),
		)
		if err := notifier.Send(ctx, streak.UserID, text); err != nil {
			log.WithError(err).WithField("user_id", streak.UserID).Warn("Не удалось отправить напоминание")
			continue
		}

		if err := s.store.MarkReminderSent(ctx, streak.UserID); err != nil {
			log.WithError(err).WithField("user_id", streak.UserID).Error("Ошибка отметки напоминания")
			continue
		}
		sent++
	}

	log.WithField("sent", sent).Debug("Напоминания о стриках разосланы")
	return nil
}
