// Package setup реализует HTTP-обработчик завершения первичной настройки.
package setup

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

// Service описывает интерфейс завершения настройки.
type Service interface {
	CompleteSetup(ctx context.Context) (models.InstanceConfiguration, error)
}

// Handler обрабатывает завершение первичной настройки.
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

// ServeHTTP отмечает первичную настройку завершённой.
//
// @Summary Завершить первичную настройку
// @Tags Setup
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.InstanceConfiguration
// @Failure 500 {object} response.ErrorResponse
// @Router /instance_configuration/setup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.setup"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	cfg, err := h.service.CompleteSetup(r.Context())
	if err != nil {
		log.Error("failed to complete setup", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}

	log.Info("initial setup completed")
	render.JSON(w, r, cfg)
}
