package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-VenueBooking/pkg/logger"
)

// AccessLog пишет строку на каждый запрос с request_id из контекста
// Должен стоять после RequestID
func AccessLog(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLog := log
			if id, ok := GetRequestID(r.Context()); ok {
				reqLog = log.With("request_id", id)
			}

			if websocket.IsWebSocketUpgrade(r) {
				reqLog.Debug("%s %s - websocket upgrade", r.Method, r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			reqLog.Debug("%s %s - %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start))
		})
	}
}
