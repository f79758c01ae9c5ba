package console

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/cloud-console/internal/health"
	"github.com/magabrotheeeer/cloud-console/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cloud-console/internal/lib/jwt"
	"github.com/magabrotheeeer/cloud-console/internal/tracking"
)

type staticHealth struct{}

func (staticHealth) Status() health.Status {
	return health.Status{Started: true, Up: true}
}

type noopTracker struct{}

func (noopTracker) Track(context.Context, tracking.CallInfo, tracking.Outcome) {}

func newTestRouter() http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, Deps{
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		Health:          staticHealth{},
		Tokens:          jwt.NewJWTMaker("secret", time.Hour),
		Tracker:         noopTracker{},
		Limiter:         middlewarectx.NewUserRateLimiter(10, 10),
		BannerThreshold: 20,
		StaticDir:       "testdata",
		SessionCookie:   "console_session",
	})
	return r
}

func TestRegisterRoutes(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"health is public", http.MethodGet, "/api/v1/health", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"workspaces require token", http.MethodGet, "/api/v1/workspaces", http.StatusUnauthorized},
		{"navigation requires token", http.MethodGet, "/api/v1/navigation?path=/", http.StatusUnauthorized},
		{"banner requires token", http.MethodPost, "/api/v1/billing/banner", http.StatusUnauthorized},
		{"console requires token", http.MethodGet, "/workspaces", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestRegisterRoutes_HealthBody(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"up":true`)
}
