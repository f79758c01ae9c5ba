package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetFeatureFlag возвращает значение флага и признак его наличия.
func (s *Storage) GetFeatureFlag(ctx context.Context, key string) (enabled bool, found bool, err error) {
	const op = "storage.GetFeatureFlag"

	err = s.DB.QueryRowContext(ctx, `SELECT enabled FROM feature_flags WHERE key = $1`, key).Scan(&enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("%s: %w", op, err)
	}
	return enabled, true, nil
}

// SetFeatureFlag создаёт или обновляет флаг.
func (s *Storage) SetFeatureFlag(ctx context.Context, key string, enabled bool) error {
	const op = "storage.SetFeatureFlag"

	_, err := s.DB.ExecContext(ctx, `INSERT INTO feature_flags (key, enabled, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET enabled = EXCLUDED.enabled, updated_at = now()`, key, enabled)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
