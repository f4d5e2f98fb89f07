package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"serotonyl.ru/ghostcards/internal/common"
)

type echoFeature struct{}

func (echoFeature) Register(r chi.Router) {
	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		id, _ := common.UserIDFromContext(r.Context())
		common.WriteJSON(w, http.StatusOK, map[string]int64{"id": id})
	})
}

func TestNewRouter(t *testing.T) {
	healthy := true
	router := NewRouter(Options{
		ResolveUser: func(context.Context, string) (int64, error) { return 3, nil },
		Ping: func(context.Context) error {
			if !healthy {
				return errors.New("down")
			}
			return nil
		},
	}, echoFeature{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}

	healthy = false
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unhealthy: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("without header: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-User-ID", "someone")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"id\":3}\n" {
		t.Fatalf("whoami: %d %s", rec.Code, rec.Body.String())
	}
}
