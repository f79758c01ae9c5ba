package middlewarectx

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/cloud-console/internal/http/response"
)

// UserRateLimiter хранит отдельный token bucket на каждого пользователя.
type UserRateLimiter struct {
	mu       sync.Mutex
	limiters map[uuid.UUID]*rate.Limiter
	rps      rate.Limit
	burst    int
}

// NewUserRateLimiter создает ограничитель с rps запросами в секунду и запасом burst.
func NewUserRateLimiter(rps float64, burst int) *UserRateLimiter {
	return &UserRateLimiter{
		limiters: make(map[uuid.UUID]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

// Allow сообщает, можно ли пропустить запрос пользователя id.
func (l *UserRateLimiter) Allow(id uuid.UUID) bool {
	l.mu.Lock()
	lim, ok := l.limiters[id]
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
		l.limiters[id] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// RateLimitMiddleware отвечает 429, когда пользователь превысил лимит.
// Должен стоять после JWTMiddleware.
func RateLimitMiddleware(l *UserRateLimiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if ok && !l.Allow(user.ID) {
				log.Warn("too many requests", slog.String("user_id", user.ID.String()))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
