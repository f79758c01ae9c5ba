package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/cloud-console/internal/models"
)

// SaveEvent сохраняет событие аналитики.
func (s *Storage) SaveEvent(ctx context.Context, ev models.TrackingEvent) error {
	const op = "storage.SaveEvent"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO analytics_events (type, user_id, endpoint_path, http_operation,
			status_code, workspace_id, customer_id, occurred_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, 0), $6, $7, $8)`
	_, err := s.DB.ExecContext(ctx, query,
		string(ev.Type), ev.UserID, ev.EndpointPath, ev.HTTPOperation, ev.StatusCode,
		ev.WorkspaceID, ev.CustomerID, ev.Timestamp)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CountEvents возвращает число сохранённых событий заданного типа.
func (s *Storage) CountEvents(ctx context.Context, eventType models.EventType) (int, error) {
	const op = "storage.CountEvents"

	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM analytics_events WHERE type = $1`, string(eventType)).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
