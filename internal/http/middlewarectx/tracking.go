package middlewarectx

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/cloud-console/internal/tracking"
)

// Tracker публикует результат вызова API.
type Tracker interface {
	Track(ctx context.Context, info tracking.CallInfo, o tracking.Outcome)
}

// TrackingMiddleware публикует одно событие api_call на каждый запрос
// аутентифицированного пользователя с фактически записанным статусом.
// Паника обработчика учитывается как 500 и продолжает подниматься дальше.
// Должен стоять после JWTMiddleware и до ограничителя частоты.
func TrackingMiddleware(t Tracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			completed := false
			defer func() {
				status := ww.Status()
				if !completed {
					status = http.StatusInternalServerError
				}
				track(t, r, status)
			}()

			next.ServeHTTP(ww, r)
			completed = true
		})
	}
}

func track(t Tracker, r *http.Request, status int) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		return
	}

	info := tracking.CallInfo{
		UserID:        user.ID,
		EndpointPath:  endpointPath(r),
		HTTPOperation: r.Method,
	}
	if id, err := uuid.Parse(chi.URLParam(r, "workspaceID")); err == nil {
		info.WorkspaceID = &id
	}
	t.Track(r.Context(), info, tracking.OutcomeFromStatus(status))
}

func endpointPath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
