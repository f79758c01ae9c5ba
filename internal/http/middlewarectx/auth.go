// Package middlewarectx содержит HTTP middleware консоли: проверку JWT,
// ограничение частоты запросов на пользователя, сессию браузера
// и отслеживание вызовов API.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cloud-console/internal/http/response"
	"github.com/magabrotheeeer/cloud-console/internal/lib/jwt"
	"github.com/magabrotheeeer/cloud-console/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-console/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserKey ключ пользователя в контексте.
	UserKey Key = "user"
	// SessionKey ключ идентификатора сессии в контексте.
	SessionKey Key = "session_id"
)

// TokenCookie cookie с токеном для навигации браузера без заголовка Authorization.
const TokenCookie = "access_token"

// TokenParser проверяет JWT токен.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// WithUser кладёт пользователя в контекст.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// UserFromContext возвращает пользователя, установленного JWTMiddleware.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(UserKey).(models.User)
	return user, ok
}

func tokenFromRequest(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return "", false
		}
		return strings.TrimPrefix(authHeader, "Bearer "), true
	}
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}

// JWTMiddleware проверяет токен из заголовка Authorization или cookie
// TokenCookie и кладёт пользователя в контекст. Без валидного токена
// отвечает 401.
func JWTMiddleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr, ok := tokenFromRequest(r)
			if !ok {
				log.Info("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}

			claims, err := parser.ParseToken(tokenStr)
			if err != nil {
				log.Info("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			user, err := claims.User()
			if err != nil {
				log.Info("token without user", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
