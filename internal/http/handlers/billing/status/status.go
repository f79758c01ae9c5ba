// Package status реализует HTTP-обработчик биллингового состояния
// рабочего пространства.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/cloud-console/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cloud-console/internal/http/response"
	"github.com/magabrotheeeer/cloud-console/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-console/internal/models"
	"github.com/magabrotheeeer/cloud-console/internal/services/billingstatus"
)

// Service описывает интерфейс бизнес-логики биллингового состояния.
type Service interface {
	Status(ctx context.Context, workspaceID uuid.UUID, user models.User) (billingstatus.Status, error)
}

// Handler обрабатывает запросы биллингового состояния.
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

// ServeHTTP возвращает баннер, уровень кредитов и состояние пробного периода.
//
// @Summary Биллинговое состояние рабочего пространства
// @Tags Billing
// @Security BearerAuth
// @Produce json
// @Param workspaceID path string true "ID рабочего пространства"
// @Success 200 {object} billingstatus.Status
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} problem.Problem
// @Router /workspaces/{workspaceID}/billing [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	workspaceID, err := uuid.Parse(chi.URLParam(r, "workspaceID"))
	if err != nil {
		log.Info("failed to decode workspace id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid workspace id"))
		return
	}
	user, _ := middlewarectx.UserFromContext(r.Context())

	res, err := h.service.Status(r.Context(), workspaceID, user)
	if err != nil {
		log.Error("failed to evaluate billing status", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}

	render.JSON(w, r, res)
}
