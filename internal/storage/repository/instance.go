package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/cloud-console/internal/models"
)

// GetInstanceConfiguration возвращает глобальную конфигурацию развёртывания.
// Отсутствие строки означает, что настройка не завершена.
func (s *Storage) GetInstanceConfiguration(ctx context.Context) (models.InstanceConfiguration, error) {
	const op = "storage.GetInstanceConfiguration"

	var cfg models.InstanceConfiguration
	err := s.DB.QueryRowContext(ctx, `SELECT initial_setup_complete FROM instance_configuration WHERE id = 1`).
		Scan(&cfg.InitialSetupComplete)
	if errors.Is(err, sql.ErrNoRows) {
		return models.InstanceConfiguration{}, nil
	}
	if err != nil {
		return models.InstanceConfiguration{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

// SetInitialSetupComplete сохраняет признак завершения первичной настройки.
func (s *Storage) SetInitialSetupComplete(ctx context.Context, complete bool) error {
	const op = "storage.SetInitialSetupComplete"

	_, err := s.DB.ExecContext(ctx, `INSERT INTO instance_configuration (id, initial_setup_complete, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET initial_setup_complete = EXCLUDED.initial_setup_complete, updated_at = now()`,
		complete)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
