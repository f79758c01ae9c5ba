// Package banner реализует HTTP-обработчик чистой оценки биллингового
// баннера по переданному снимку состояния.
package banner

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/cloud-console/internal/billing"
	"github.com/magabrotheeeer/cloud-console/internal/http/response"
	"github.com/magabrotheeeer/cloud-console/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-console/internal/metrics"
)

// Request снимок состояния рабочего пространства.
type Request struct {
	RemainingCredits          *float64 `json:"remainingCredits,omitempty"`
	HasEligibleConnections    *bool    `json:"hasEligibleConnections,omitempty"`
	HasNonEligibleConnections *bool    `json:"hasNonEligibleConnections,omitempty"`
	IsEnrolled                *bool    `json:"isEnrolled,omitempty"`
	IsPreTrial                bool     `json:"isPreTrial"`
	Threshold                 float64  `json:"threshold,omitempty" validate:"gte=0"`
}

// Result решение по баннеру.
type Result struct {
	Severity    billing.Severity    `json:"severity"`
	CreditLevel billing.CreditLevel `json:"creditLevel"`
}

// Handler оценивает баннер без обращения к хранилищу.
type Handler struct {
	log       *slog.Logger
	validate  *validator.Validate
	threshold float64
}

// New создает Handler. threshold используется, если запрос его не задал.
func New(log *slog.Logger, threshold float64) *Handler {
	if threshold <= 0 {
		threshold = billing.LowBalanceCreditThreshold
	}
	return &Handler{
		log:       log,
		validate:  validator.New(),
		threshold: threshold,
	}
}

// ServeHTTP вычисляет серьёзность баннера.
//
// @Summary Оценить биллинговый баннер
// @Tags Billing
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body Request true "Снимок состояния"
// @Success 200 {object} Result
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Router /billing/banner [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.banner"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	threshold := req.Threshold
	if threshold == 0 {
		threshold = h.threshold
	}
	severity := billing.SelectBannerSeverity(billing.BannerInput{
		RemainingCredits:          req.RemainingCredits,
		HasEligibleConnections:    req.HasEligibleConnections,
		HasNonEligibleConnections: req.HasNonEligibleConnections,
		IsEnrolled:                req.IsEnrolled,
		IsPreTrial:                req.IsPreTrial,
		Threshold:                 threshold,
	})
	metrics.BannerSeverity.WithLabelValues(string(severity)).Inc()

	render.JSON(w, r, Result{
		Severity:    severity,
		CreditLevel: billing.CreditLevelOf(req.RemainingCredits, threshold),
	})
}
