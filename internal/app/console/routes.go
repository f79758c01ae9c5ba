package console

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/cloud-console/docs"

	"github.com/magabrotheeeer/cloud-console/internal/http/handlers/billing/banner"
	billingstatushandler "github.com/magabrotheeeer/cloud-console/internal/http/handlers/billing/status"
	consolehandler "github.com/magabrotheeeer/cloud-console/internal/http/handlers/console"
	healthhandler "github.com/magabrotheeeer/cloud-console/internal/http/handlers/health"
	"github.com/magabrotheeeer/cloud-console/internal/http/handlers/navigation"
	"github.com/magabrotheeeer/cloud-console/internal/http/handlers/setup"
	"github.com/magabrotheeeer/cloud-console/internal/http/handlers/workspaces/list"
	"github.com/magabrotheeeer/cloud-console/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cloud-console/internal/services/billingstatus"
	"github.com/magabrotheeeer/cloud-console/internal/services/workspaces"
)

// Deps зависимости маршрутов.
type Deps struct {
	Logger          *slog.Logger
	Workspaces      *workspaces.Service
	Billing         *billingstatus.Service
	Health          healthhandler.Service
	Tokens          middlewarectx.TokenParser
	Tracker         middlewarectx.Tracker
	Limiter         *middlewarectx.UserRateLimiter
	BannerThreshold float64
	StaticDir       string
	SessionCookie   string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthhandler.New(d.Logger, d.Health).ServeHTTP)

		// Группа с JWT аутентификацией, каждый вызов отслеживается
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(d.SessionCookie))
			r.Use(middlewarectx.JWTMiddleware(d.Tokens, d.Logger))
			r.Use(middlewarectx.TrackingMiddleware(d.Tracker))
			r.Use(middlewarectx.RateLimitMiddleware(d.Limiter, d.Logger))

			r.Get("/navigation", navigation.New(d.Logger, d.Workspaces).ServeHTTP)
			r.Get("/workspaces", list.New(d.Logger, d.Workspaces).ServeHTTP)
			r.Get("/workspaces/{workspaceID}/billing", billingstatushandler.New(d.Logger, d.Billing).ServeHTTP)
			r.Post("/billing/banner", banner.New(d.Logger, d.BannerThreshold).ServeHTTP)
			r.Post("/instance_configuration/setup", setup.New(d.Logger, d.Workspaces).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
	r.Handle("/assets/*", http.FileServer(http.Dir(d.StaticDir)))

	// Навигация браузера
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.SessionMiddleware(d.SessionCookie))
		r.Use(middlewarectx.JWTMiddleware(d.Tokens, d.Logger))
		r.Get("/*", consolehandler.New(d.Logger, d.Workspaces, d.StaticDir).ServeHTTP)
	})
}
