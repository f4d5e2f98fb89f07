// Package streak: repository.go выполняет операции с таблицами streaks и past_streaks.
package streak

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/ghostcards/internal/common"
)

const streakColumns = `id, user_id, current_streak, longest_streak, reviews_today,
		       quota_completed_today, streak_started_on, last_quota_completion, last_review_at,
		       total_quotas_completed, reminder_sent_today, created_at, updated_at`

// Repository предоставляет методы для работы со стриками.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий стриков.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanStreak(row pgx.Row) (*Streak, error) {
	var s Streak
	err := row.Scan(
		&s.ID, &s.UserID, &s.CurrentStreak, &s.LongestStreak,
		&s.ReviewsToday, &s.QuotaCompletedToday, &s.StreakStartedOn,
		&s.LastQuotaCompletion, &s.LastReviewAt, &s.TotalQuotasCompleted,
		&s.ReminderSentToday, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectStreaks(rows pgx.Rows) ([]*Streak, error) {
	defer rows.Close()

	var streaks []*Streak
	for rows.Next() {
		s, err := scanStreak(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования: %w", err)
		}
		streaks = append(streaks, s)
	}
	return streaks, rows.Err()
}

// Create создаёт начальную запись стрика. Повторный вызов ничего не делает.
func (r *Repository) Create(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO streaks (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("ошибка создания стрика: %w", err)
	}
	return nil
}

// GetByUserID возвращает стрик пользователя или common.ErrNotFound.
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*Streak, error) {
	query := `SELECT ` + streakColumns + ` FROM streaks WHERE user_id = $1`
	s, err := scanStreak(r.db.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения стрика (user_id=%d): %w", userID, err)
	}
	return s, nil
}

// IncrementReviews увеличивает счётчик повторений на 1 и обновляет last_review_at.
func (r *Repository) IncrementReviews(ctx context.Context, userID int64, at time.Time) (*Streak, error) {
	query := `
		UPDATE streaks
		SET reviews_today = reviews_today + 1, last_review_at = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + streakColumns
	s, err := scanStreak(r.db.QueryRow(ctx, query, userID, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления счётчика: %w", err)
	}
	return s, nil
}

// CompleteQuota отмечает выполнение дневной нормы.
// Возвращает false, если норма на сегодня уже была засчитана.
func (r *Repository) CompleteQuota(ctx context.Context, c QuotaCompletion) (bool, error) {
	query := `
		UPDATE streaks
		SET quota_completed_today = TRUE,
		    current_streak = $2,
		    longest_streak = $3,
		    total_quotas_completed = $4,
		    streak_started_on = $5,
		    last_quota_completion = $6,
		    updated_at = NOW()
		WHERE user_id = $1 AND quota_completed_today = FALSE
	`
	tag, err := r.db.Exec(ctx, query,
		c.UserID, c.NewStreak, c.LongestStreak, c.TotalCompleted, c.StartedOn, c.QuotaDate,
	)
	if err != nil {
		return false, fmt.Errorf("ошибка завершения нормы: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetAll возвращает все стрики. Используется для ежедневного сброса.
func (r *Repository) GetAll(ctx context.Context) ([]*Streak, error) {
	rows, err := r.db.Query(ctx, `SELECT `+streakColumns+` FROM streaks`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения стриков: %w", err)
	}
	return collectStreaks(rows)
}

// GetByMinStreak возвращает стрики с серией >= minStreak.
// Используется для напоминаний.
func (r *Repository) GetByMinStreak(ctx context.Context, minStreak int) ([]*Streak, error) {
	query := `SELECT ` + streakColumns + ` FROM streaks WHERE current_streak >= $1`
	rows, err := r.db.Query(ctx, query, minStreak)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения длинных стриков: %w", err)
	}
	return collectStreaks(rows)
}

// BreakStreak архивирует серию в past_streaks и обнуляет стрик.
// Обе операции выполняются в одной транзакции.
func (r *Repository) BreakStreak(ctx context.Context, past PastStreak) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO past_streaks (user_id, streak_length, start_date, end_date)
		VALUES ($1, $2, $3, $4)
	`, past.UserID, past.StreakLength, past.StartDate, past.EndDate)
	if err != nil {
		return fmt.Errorf("ошибка архивации серии: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE streaks
		SET current_streak = 0, streak_started_on = NULL, updated_at = NOW()
		WHERE user_id = $1
	`, past.UserID)
	if err != nil {
		return fmt.Errorf("ошибка сброса стрика: %w", err)
	}

	return tx.Commit(ctx)
}

// ResetDaily сбрасывает дневные счётчики для всех пользователей.
// Вызывается кроном в полночь по APP_TIMEZONE.
func (r *Repository) ResetDaily(ctx context.Context) error {
	query := `
		UPDATE streaks
		SET reviews_today = 0, quota_completed_today = FALSE,
		    reminder_sent_today = FALSE, updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("ошибка сброса дневных счётчиков: %w", err)
	}
	return nil
}

// MarkReminderSent помечает, что напоминание уже отправлено сегодня.
func (r *Repository) MarkReminderSent(ctx context.Context, userID int64) error {
	query := `UPDATE streaks SET reminder_sent_today = TRUE WHERE user_id = $1`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("ошибка отметки напоминания: %w", err)
	}
	return nil
}

// ListPast возвращает архив серий пользователя от старых к новым.
func (r *Repository) ListPast(ctx context.Context, userID int64) ([]PastStreak, error) {
	query := `
		SELECT id, user_id, streak_length, start_date, end_date, created_at
		FROM past_streaks
		WHERE user_id = $1
		ORDER BY end_date ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения архива серий: %w", err)
	}
	defer rows.Close()

	var past []PastStreak
	for rows.Next() {
		var p PastStreak
		if err := rows.Scan(&p.ID, &p.UserID, &p.StreakLength, &p.StartDate, &p.EndDate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования архива: %w", err)
		}
		past = append(past, p)
	}
	return past, rows.Err()
}
