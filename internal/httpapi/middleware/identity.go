package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"serotonyl.ru/ghostcards/internal/common"
)

// UserHeader: заголовок, в котором клиент передаёт свой идентификатор.
const UserHeader = "X-User-ID"

// ResolveUser превращает внешний идентификатор во внутренний ID пользователя.
type ResolveUser func(ctx context.Context, externalID string) (int64, error)

// Identity кладёт ID пользователя в контекст. Без заголовка отвечает 401.
func Identity(resolve ResolveUser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			externalID := strings.TrimSpace(r.Header.Get(UserHeader))
			if externalID == "" {
				common.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing "+UserHeader+" header")
				return
			}
			userID, err := resolve(r.Context(), externalID)
			if err != nil {
				if errors.Is(err, common.ErrUnauthorized) {
					common.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid "+UserHeader+" header")
					return
				}
				common.WriteDomainError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(common.WithUserID(r.Context(), userID)))
		})
	}
}
