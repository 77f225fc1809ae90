package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-VenueBooking/internal/api/handlers"
)

const msgTooManyRequests = "too many booking attempts, please try again shortly"

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов с одного IP
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time

	// trustForwardedFor включается только за reverse proxy, который перезаписывает X-Forwarded-For
	trustForwardedFor bool
}

// NewRateLimiter создает ограничитель: perMinute запросов в минуту с запасом burst
// Без trustForwardedFor клиент определяется только по адресу соединения
func NewRateLimiter(perMinute int, burst int, trustForwardedFor bool) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		visitors:          make(map[string]*visitor),
		limit:             rate.Limit(float64(perMinute) / 60.0),
		burst:             burst,
		ttl:               10 * time.Minute,
		now:               time.Now,
		trustForwardedFor: trustForwardedFor,
	}
}

// Allow проверяет, можно ли пропустить запрос с адреса ip
func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	l.evict(now)

	return v.limiter.AllowN(now, 1)
}

// evict удаляет давно неактивные адреса
func (l *RateLimiter) evict(now time.Time) {
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.visitors, ip)
		}
	}
}

// Middleware отклоняет запросы сверх лимита с кодом 429
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(l.clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			handlers.RespondTooManyRequests(w, msgTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) clientIP(r *http.Request) string {
	if l.trustForwardedFor {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			return strings.TrimSpace(strings.Split(fwd, ",")[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
