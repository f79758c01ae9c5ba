package middlewarectx

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// SessionFromContext возвращает идентификатор сессии браузера.
func SessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(SessionKey).(string)
	return id
}

// SessionMiddleware читает идентификатор сессии из cookie или выдаёт новый.
func SessionMiddleware(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(cookieName); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   r.TLS != nil,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), SessionKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
