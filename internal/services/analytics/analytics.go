// Package analytics сохраняет события аналитики, полученные из очереди.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/cloud-console/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-console/internal/metrics"
	"github.com/magabrotheeeer/cloud-console/internal/models"
)

// ErrInvalidEvent событие не прошло проверку и не будет сохранено.
var ErrInvalidEvent = errors.New("invalid analytics event")

// EventStore сохраняет события.
type EventStore interface {
	SaveEvent(ctx context.Context, ev models.TrackingEvent) error
}

// Forwarder переносит события из очереди в хранилище.
type Forwarder struct {
	store    EventStore
	validate *validator.Validate
	log      *slog.Logger
}

// NewForwarder создает новый экземпляр Forwarder.
func NewForwarder(store EventStore, log *slog.Logger) *Forwarder {
	return &Forwarder{
		store:    store,
		validate: validator.New(),
		log:      log,
	}
}

// Handle обрабатывает одно сообщение очереди. Некорректные сообщения
// отбрасываются без ошибки, чтобы не возвращаться в очередь; ошибка
// хранилища возвращается, и сообщение будет доставлено повторно.
func (f *Forwarder) Handle(ctx context.Context, body []byte) error {
	const op = "analytics.Handle"
	log := f.log.With(slog.String("op", op))

	ev, err := f.Decode(body)
	if err != nil {
		metrics.ForwardedEvents.WithLabelValues("invalid").Inc()
		log.Warn("dropping analytics event", sl.Err(err))
		return nil
	}

	if err := f.store.SaveEvent(ctx, ev); err != nil {
		metrics.ForwardedEvents.WithLabelValues("failed").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.ForwardedEvents.WithLabelValues("stored").Inc()
	log.Debug("analytics event stored", slog.String("type", string(ev.Type)))
	return nil
}

// Decode разбирает и проверяет сообщение.
func (f *Forwarder) Decode(body []byte) (models.TrackingEvent, error) {
	var ev models.TrackingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return models.TrackingEvent{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := f.validate.Struct(ev); err != nil {
		return models.TrackingEvent{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	switch ev.Type {
	case models.EventAPICall:
		if ev.EndpointPath == "" || ev.HTTPOperation == "" || ev.StatusCode == 0 {
			return models.TrackingEvent{}, fmt.Errorf("%w: api_call requires endpoint, operation and status", ErrInvalidEvent)
		}
	case models.EventIdentify:
		if ev.WorkspaceID == nil {
			return models.TrackingEvent{}, fmt.Errorf("%w: identify requires workspace_id", ErrInvalidEvent)
		}
	}
	return ev, nil
}
