package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ghostcards/internal/common"
)

// Recover перехватывает панику в обработчике, логирует стек и отвечает 500.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.WithFields(log.Fields{
				"component": "panic_recovery",
				"panic":     fmt.Sprintf("%v", rec),
				"path":      r.URL.Path,
				"stack":     string(debug.Stack()),
			}).Error("ПАНИКА в обработчике, восстановлено")
			common.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
		}()
		next.ServeHTTP(w, r)
	})
}
