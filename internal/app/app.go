// Package app собирает приложение: пул БД, репозитории, сервисы,
// HTTP-роутер и планировщик.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ghostcards/internal/config"
	"serotonyl.ru/ghostcards/internal/db/postgres"
	"serotonyl.ru/ghostcards/internal/features/cards"
	"serotonyl.ru/ghostcards/internal/features/decks"
	"serotonyl.ru/ghostcards/internal/features/gallery"
	"serotonyl.ru/ghostcards/internal/features/streak"
	"serotonyl.ru/ghostcards/internal/features/users"
	"serotonyl.ru/ghostcards/internal/httpapi"
	"serotonyl.ru/ghostcards/internal/httpapi/middleware"
	"serotonyl.ru/ghostcards/internal/jobs"
	"serotonyl.ru/ghostcards/internal/notify"
)

// App содержит все компоненты приложения.
type App struct {
	Server    *http.Server
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool

	limiter *middleware.RateLimiter
}

// New создаёт и инициализирует приложение.
// Порядок важен: сервисы зависят от репозиториев и друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}
	if err := postgres.Migrate(ctx, pool, migrations); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Сервисы ===
	userService := users.NewService(users.NewRepository(pool))
	deckService := decks.NewService(decks.NewRepository(pool))
	streakService := streak.NewService(streak.NewRepository(pool), cfg, nil)
	cardService := cards.NewService(cards.NewRepository(pool), deckService, streakService, nil)
	sessions := gallery.NewSessions(cfg.GallerySessionTTL, nil)

	// === 3. Напоминания ===
	notifier, err := newNotifier(cfg, userService)
	if err != nil {
		pool.Close()
		return nil, err
	}

	// === 4. HTTP ===
	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	router := httpapi.NewRouter(httpapi.Options{
		Origins:        cfg.CORSOrigins,
		RequestTimeout: cfg.HTTPRequestTimeout,
		Limiter:        limiter,
		Ping:           pool.Ping,
		ResolveUser: func(ctx context.Context, externalID string) (int64, error) {
			u, err := userService.Ensure(ctx, externalID)
			if err != nil {
				return 0, err
			}
			return u.ID, nil
		},
	},
		users.NewHandler(userService),
		decks.NewHandler(deckService),
		cards.NewHandler(cardService, cfg.ImportMaxBytes),
		streak.NewHandler(streakService, sessions),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTPRequestTimeout,
	}

	// === 5. Планировщик задач ===
	scheduler := jobs.NewScheduler(streakService, notifier, sessions, jobs.Options{
		Location:         cfg.Location(),
		RemindersEnabled: cfg.FeatureRemindersEnabled,
	})

	return &App{
		Server:    server,
		Scheduler: scheduler,
		DB:        pool,
		limiter:   limiter,
	}, nil
}

// Close освобождает ресурсы, которые не останавливаются сами.
func (a *App) Close() {
	a.limiter.Close()
	a.DB.Close()
}

// newNotifier выбирает Telegram, если задан токен, иначе пишет напоминания в лог.
func newNotifier(cfg *config.Config, chats notify.ChatResolver) (notify.Sender, error) {
	if cfg.TelegramBotToken == "" {
		log.Warn("TELEGRAM_BOT_TOKEN не задан, напоминания пишутся только в лог")
		return notify.LogSender{}, nil
	}
	sender, err := notify.NewTelegramSender(cfg.TelegramBotToken, cfg.AppEnv == "development", chats)
	if err != nil {
		return nil, err
	}
	return sender, nil
}
