// Package tracking отправляет результаты вызовов API в конвейер аналитики.
//
// Отслеживание выполняется как шаг постобработки над Outcome: обёрнутый вызов возвращает
// значение или ошибку, Outcome вычисляется из ошибки, а Tracker публикует
// ровно одно событие. Ошибка вызова возвращается вызывающему без изменений.
// Публикация выполняется по принципу best effort, без повторов.
package tracking

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/cloud-console/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-console/internal/metrics"
	"github.com/magabrotheeeer/cloud-console/internal/models"
)

// Ключи маршрутизации обменника аналитики.
const (
	RoutingKeyAPICall  = "api_call"
	RoutingKeyIdentify = "identify"
)

// Publisher публикует сообщение в конвейер аналитики.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// CallInfo описывает отслеживаемый вызов.
type CallInfo struct {
	UserID        uuid.UUID
	EndpointPath  string
	HTTPOperation string
	WorkspaceID   *uuid.UUID
}

// Tracker публикует события аналитики.
type Tracker struct {
	pub Publisher
	log *slog.Logger
	now func() time.Time
}

// New создаёт Tracker.
func New(pub Publisher, log *slog.Logger) *Tracker {
	return &Tracker{
		pub: pub,
		log: log,
		now: time.Now,
	}
}

// Event строит событие api_call по описанию вызова и его результату.
func Event(info CallInfo, o Outcome, at time.Time) models.TrackingEvent {
	return models.TrackingEvent{
		Type:          models.EventAPICall,
		UserID:        info.UserID,
		EndpointPath:  info.EndpointPath,
		HTTPOperation: info.HTTPOperation,
		StatusCode:    o.StatusCode,
		WorkspaceID:   info.WorkspaceID,
		Timestamp:     at.UTC(),
	}
}

// Track публикует одно событие для результата вызова.
func (t *Tracker) Track(ctx context.Context, info CallInfo, o Outcome) {
	ev := Event(info, o, t.now())
	t.publish(ctx, RoutingKeyAPICall, ev)
}

// TrackSuccess публикует событие успешного вызова со статусом 200.
func (t *Tracker) TrackSuccess(ctx context.Context, info CallInfo) {
	t.Track(ctx, info, OutcomeOf(nil))
}

// TrackFailureIfAny публикует событие, только если err не nil.
func (t *Tracker) TrackFailureIfAny(ctx context.Context, info CallInfo, err error) {
	if err == nil {
		return
	}
	t.Track(ctx, info, OutcomeOf(err))
}

// Identify регистрирует контекст аналитики {workspace_id, customer_id} для пользователя.
func (t *Tracker) Identify(ctx context.Context, userID uuid.UUID, ws models.Workspace) {
	workspaceID := ws.ID
	customerID := ws.CustomerID
	ev := models.TrackingEvent{
		Type:        models.EventIdentify,
		UserID:      userID,
		WorkspaceID: &workspaceID,
		CustomerID:  &customerID,
		Timestamp:   t.now().UTC(),
	}
	t.publish(ctx, RoutingKeyIdentify, ev)
}

func (t *Tracker) publish(ctx context.Context, routingKey string, ev models.TrackingEvent) {
	// отмена запроса не должна терять событие
	ctx = context.WithoutCancel(ctx)

	if err := t.pub.Publish(ctx, routingKey, ev); err != nil {
		metrics.TrackingPublishFailures.WithLabelValues(string(ev.Type)).Inc()
		t.log.Warn("failed to publish analytics event",
			slog.String("type", string(ev.Type)),
			slog.String("endpoint", ev.EndpointPath),
			sl.Err(err),
		)
		return
	}
	metrics.TrackingEvents.WithLabelValues(string(ev.Type), metrics.StatusClass(ev.StatusCode)).Inc()
}

// Call выполняет fn и отслеживает результат ровно один раз: 200 при успехе,
// статус проблемы или 500 при ошибке. Ошибка возвращается без изменений.
func Call[T any](ctx context.Context, t *Tracker, info CallInfo, fn func(context.Context) (T, error)) (T, error) {
	res, err := fn(ctx)
	t.Track(ctx, info, OutcomeOf(err))
	return res, err
}

// CallWithFailureTracker выполняет fn и отслеживает только ошибки.
func CallWithFailureTracker[T any](ctx context.Context, t *Tracker, info CallInfo, fn func(context.Context) (T, error)) (T, error) {
	res, err := fn(ctx)
	t.TrackFailureIfAny(ctx, info, err)
	return res, err
}
