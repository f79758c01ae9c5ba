// Package console обслуживает навигацию браузера по консоли: отвечает
// перенаправлением по решению маршрутизации или отдаёт оболочку
// клиентского приложения.
package console

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/cloud-console/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cloud-console/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-console/internal/models"
	"github.com/magabrotheeeer/cloud-console/internal/problem"
	"github.com/magabrotheeeer/cloud-console/internal/routing"
)

// RouteHeader заголовок с видом решения для оболочки приложения.
const RouteHeader = "X-Console-Route"

// Service описывает интерфейс бизнес-логики навигации.
type Service interface {
	Navigate(ctx context.Context, sessionID string, user models.User, path, rawQuery string) (routing.Decision, error)
}

// Handler обрабатывает навигацию браузера.
type Handler struct {
	log       *slog.Logger
	service   Service
	indexPath string
}

// New создает Handler, отдающий index.html из staticDir.
func New(log *slog.Logger, service Service, staticDir string) *Handler {
	return &Handler{
		log:       log,
		service:   service,
		indexPath: filepath.Join(staticDir, "index.html"),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.console"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, _ := middlewarectx.UserFromContext(r.Context())
	decision, err := h.service.Navigate(r.Context(), middlewarectx.SessionFromContext(r.Context()),
		user, r.URL.Path, r.URL.RawQuery)
	if err != nil {
		log.Error("failed to resolve navigation", slog.String("path", r.URL.Path), sl.Err(err))
		p, ok := problem.As(err)
		if !ok {
			p = problem.Internal("")
		}
		problem.Render(w, p)
		return
	}

	if decision.Kind == routing.KindRedirect {
		http.Redirect(w, r, decision.Location, http.StatusFound)
		return
	}

	w.Header().Set(RouteHeader, string(decision.Kind))
	http.ServeFile(w, r, h.indexPath)
}
