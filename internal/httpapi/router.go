// Package httpapi собирает HTTP API: chi-роутер, общие middleware и маршруты фич.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ghostcards/internal/common"
	"serotonyl.ru/ghostcards/internal/httpapi/middleware"
)

// Registrar: фича, которая умеет повесить свои маршруты.
type Registrar interface {
	Register(r chi.Router)
}

// Options: зависимости роутера.
type Options struct {
	Origins        []string
	RequestTimeout time.Duration
	ResolveUser    middleware.ResolveUser
	Limiter        *middleware.RateLimiter
	// Ping проверяет зависимости для /health (обычно пул БД)
	Ping func(ctx context.Context) error
}

// NewRouter возвращает роутер со всеми маршрутами.
// /health открыт, остальное требует X-User-ID.
func NewRouter(opts Options, features ...Registrar) *chi.Mux {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(chimw.Timeout(opts.RequestTimeout))
	r.Use(middleware.CORS(opts.Origins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if opts.Ping != nil {
			if err := opts.Ping(r.Context()); err != nil {
				log.WithError(err).Warn("Проверка здоровья не прошла")
				common.WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Database unavailable")
				return
			}
		}
		common.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(opts.ResolveUser))
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Middleware)
		}
		for _, f := range features {
			f.Register(r)
		}
	})

	return r
}
