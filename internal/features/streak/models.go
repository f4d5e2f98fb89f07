// Package streak управляет системой ежедневных стриков (серий повторений).
// models.go описывает структуры данных стрика и архива прошлых серий.
package streak

import (
	"time"

	"serotonyl.ru/ghostcards/internal/features/gallery"
)

// Streak представляет запись стрика пользователя.
// Стрик увеличивается каждый день, когда пользователь повторяет
// достаточно карточек (10 по умолчанию).
type Streak struct {
	ID                   int64      `db:"id"`
	UserID               int64      `db:"user_id"`
	CurrentStreak        int        `db:"current_streak"`         // Текущая серия (дней подряд)
	LongestStreak        int        `db:"longest_streak"`         // Личный рекорд
	ReviewsToday         int        `db:"reviews_today"`          // Повторений сегодня
	QuotaCompletedToday  bool       `db:"quota_completed_today"`  // Норма выполнена сегодня?
	StreakStartedOn      *time.Time `db:"streak_started_on"`      // Первый день текущей серии
	LastQuotaCompletion  *time.Time `db:"last_quota_completion"`  // Дата последнего выполнения нормы
	LastReviewAt         *time.Time `db:"last_review_at"`         // Время последнего повторения
	TotalQuotasCompleted int        `db:"total_quotas_completed"` // Всего раз выполнена норма
	ReminderSentToday    bool       `db:"reminder_sent_today"`    // Напоминание отправлено?
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
}

// PastStreak: завершённая серия из архива past_streaks.
type PastStreak struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	StreakLength int       `db:"streak_length"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	CreatedAt    time.Time `db:"created_at"`
}

// ToGallery переводит запись архива в вид, который понимает галерея.
func (p PastStreak) ToGallery() gallery.PastStreak {
	return gallery.PastStreak{
		StreakLength: p.StreakLength,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
	}
}

// Status: ответ GET /streak.
type Status struct {
	Current             int  `json:"current"`
	Longest             int  `json:"longest"`
	ReviewsToday        int  `json:"reviewsToday"`
	ReviewsNeed         int  `json:"reviewsNeed"`
	Remaining           int  `json:"remaining"`
	QuotaCompletedToday bool `json:"quotaCompletedToday"`
	TotalQuotas         int  `json:"totalQuotas"`
}

// History: данные для галереи прошлых серий.
type History struct {
	PastStreaks []gallery.PastStreak `json:"pastStreaks"`
	Longest     int                  `json:"longest"`
	Current     int                  `json:"current"`
}

// QuotaCompletion: новые значения стрика после выполнения нормы.
type QuotaCompletion struct {
	UserID         int64
	NewStreak      int
	LongestStreak  int
	TotalCompleted int
	StartedOn      time.Time
	QuotaDate      time.Time
}
