package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/iudanet/rulekeeper/internal/server/handlers"
)

// Recovery перехватывает panic, логирует стек и отвечает 500 в формате ошибок сервера
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// http.ErrAbortHandler используется для разрыва соединения, пробрасываем
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("Panic recovered",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				handlers.WriteError(w, http.StatusInternalServerError, "An error has occurred")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
