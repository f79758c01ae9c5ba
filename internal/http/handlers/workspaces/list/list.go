// Package list реализует HTTP-обработчик листинга рабочих пространств.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cloud-console/internal/http/response"
	"github.com/magabrotheeeer/cloud-console/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-console/internal/models"
)

// Service описывает интерфейс бизнес-логики листинга.
type Service interface {
	List(ctx context.Context) ([]models.Workspace, error)
}

// Handler обрабатывает запросы листинга рабочих пространств.
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

// ServeHTTP возвращает рабочие пространства в порядке листинга.
//
// @Summary Список рабочих пространств
// @Tags Workspaces
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse
// @Router /workspaces [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.workspaces.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list workspaces", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}

	log.Debug("workspaces listed", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"workspaces": res,
	}))
}
