// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ежедневный сброс стриков,
// ежечасные напоминания и очистку брошенных галерей.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ghostcards/internal/features/streak"
)

// StreakJobs: операции стрик-сервиса, которые запускает крон.
type StreakJobs interface {
	DailyReset(ctx context.Context) error
	SendReminders(ctx context.Context, notifier streak.Notifier) error
}

// Sweeper удаляет истёкшие галереи.
type Sweeper interface {
	Sweep() int
}

// Options: что и когда запускать.
type Options struct {
	Location         *time.Location
	RemindersEnabled bool
}

type job struct {
	schedule string
	name     string
	fn       func()
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron     *cron.Cron
	streaks  StreakJobs
	notifier streak.Notifier
	sweeper  Sweeper
	opts     Options
}

// NewScheduler создаёт планировщик задач в часовом поясе приложения.
func NewScheduler(streaks StreakJobs, notifier streak.Notifier, sweeper Sweeper, opts Options) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(opts.Location)),
		streaks:  streaks,
		notifier: notifier,
		sweeper:  sweeper,
		opts:     opts,
	}
}

// Start регистрирует и запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) error {
	jobs := []job{
		{"0 0 * * *", "daily_reset", func() { s.dailyReset(ctx) }},
		{"*/1 * * * *", "gallery_sweep", s.sweepGalleries},
	}
	if s.opts.RemindersEnabled {
		jobs = append(jobs, job{"0 * * * *", "reminders", func() { s.sendReminders(ctx) }})
	}

	for _, j := range jobs {
		if _, err := s.cron.AddFunc(j.schedule, j.fn); err != nil {
			return fmt.Errorf("ошибка регистрации задачи %s: %w", j.name, err)
		}
	}

	s.cron.Start()
	log.WithFields(log.Fields{
		"timezone": s.opts.Location.String(),
		"jobs":     len(jobs),
	}).Info("Планировщик задач запущен")
	return nil
}

// Stop останавливает планировщик и ждёт завершения запущенных задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

func (s *Scheduler) dailyReset(ctx context.Context) {
	log.Info("[CRON] Ежедневный сброс стриков")
	if err := s.streaks.DailyReset(ctx); err != nil {
		log.WithError(err).Error("[CRON] Ошибка сброса")
	}
}

func (s *Scheduler) sendReminders(ctx context.Context) {
	log.Debug("[CRON] Проверка напоминаний")
	if err := s.streaks.SendReminders(ctx, s.notifier); err != nil {
		log.WithError(err).Error("[CRON] Ошибка напоминаний")
	}
}

func (s *Scheduler) sweepGalleries() {
	if removed := s.sweeper.Sweep(); removed > 0 {
		log.WithField("removed", removed).Debug("[CRON] Удалены истёкшие галереи")
	}
}
