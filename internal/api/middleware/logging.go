package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

// Logging пишет строку на каждый запрос и перехватывает панику обработчика
func Logging(logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				if p := recover(); p != nil {
					logger.Error("HTTP: panic in %s %s: %v", r.Method, r.URL.Path, p)
					handlers.RespondInternalError(rec)
				}
				logger.Info("HTTP: %s %s status=%d duration=%s", r.Method, r.URL.Path, rec.status, time.Since(start))
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
