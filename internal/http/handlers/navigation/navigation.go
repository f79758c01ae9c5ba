// Package navigation реализует HTTP-обработчик решения о маршруте консоли.
//
// Клиентское приложение передаёт путь и строку запроса, обработчик
// возвращает, что показать или куда перенаправить.
package navigation

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cloud-console/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cloud-console/internal/http/response"
	"github.com/magabrotheeeer/cloud-console/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-console/internal/models"
	"github.com/magabrotheeeer/cloud-console/internal/routing"
)

// Service описывает интерфейс бизнес-логики навигации.
type Service interface {
	Navigate(ctx context.Context, sessionID string, user models.User, path, rawQuery string) (routing.Decision, error)
}

// Handler обрабатывает запросы навигации.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP возвращает решение о маршруте.
//
// @Summary Решение о маршруте консоли
// @Tags Navigation
// @Security BearerAuth
// @Produce json
// @Param path query string true "Запрошенный путь"
// @Param query query string false "Исходная строка запроса"
// @Success 200 {object} routing.Decision
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} problem.Problem "Нет рабочих пространств"
// @Router /navigation [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.navigation"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	path := r.URL.Query().Get("path")
	if path == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("query parameter path is required"))
		return
	}
	user, _ := middlewarectx.UserFromContext(r.Context())

	decision, err := h.service.Navigate(r.Context(), middlewarectx.SessionFromContext(r.Context()),
		user, path, r.URL.Query().Get("query"))
	if err != nil {
		log.Error("failed to resolve navigation", slog.String("path", path), sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}

	render.JSON(w, r, decision)
}
