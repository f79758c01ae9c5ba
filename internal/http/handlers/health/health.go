// Package health отдаёт результат последней проверки доступности API конфигурации.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apihealth "github.com/magabrotheeeer/cloud-console/internal/health"
	"github.com/magabrotheeeer/cloud-console/internal/http/response"
)

// Service возвращает текущее состояние опроса.
type Service interface {
	Status() apihealth.Status
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP возвращает состояние опроса доступности.
//
// @Summary Доступность API конфигурации
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(h.service.Status()))
}
