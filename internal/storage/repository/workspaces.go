package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/cloud-console/internal/models"
)

// ListWorkspaces возвращает рабочие пространства в порядке создания.
func (s *Storage) ListWorkspaces(ctx context.Context) ([]models.Workspace, error) {
	const op = "storage.ListWorkspaces"

	rows, err := s.DB.QueryContext(ctx, `SELECT id, customer_id, name
		FROM workspaces ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []models.Workspace
	for rows.Next() {
		var ws models.Workspace
		if err := rows.Scan(&ws.ID, &ws.CustomerID, &ws.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetWorkspace возвращает рабочее пространство по ID.
func (s *Storage) GetWorkspace(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	const op = "storage.GetWorkspace"

	var ws models.Workspace
	err := s.DB.QueryRowContext(ctx, `SELECT id, customer_id, name FROM workspaces WHERE id = $1`, id).
		Scan(&ws.ID, &ws.CustomerID, &ws.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: workspace %s: %w", op, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &ws, nil
}

// GetCloudWorkspace возвращает рабочее пространство вместе с биллинговыми полями.
// Отсутствие строки в cloud_workspaces даёт пустые биллинговые поля.
func (s *Storage) GetCloudWorkspace(ctx context.Context, id uuid.UUID) (*models.CloudWorkspace, error) {
	const op = "storage.GetCloudWorkspace"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT w.id, w.customer_id, w.name,
			c.remaining_credits, c.trial_status, c.trial_expiry_timestamp
		FROM workspaces w
		LEFT JOIN cloud_workspaces c ON c.workspace_id = w.id
		WHERE w.id = $1`

	var (
		ws      models.CloudWorkspace
		credits sql.NullFloat64
		status  sql.NullString
		expiry  sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx, query, id).
		Scan(&ws.ID, &ws.CustomerID, &ws.Name, &credits, &status, &expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: workspace %s: %w", op, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if credits.Valid {
		v := credits.Float64
		ws.RemainingCredits = &v
	}
	if status.Valid {
		v := models.ParseTrialStatus(status.String)
		ws.TrialStatus = &v
	}
	if expiry.Valid {
		v := expiry.Time
		ws.TrialExpiryTimestamp = &v
	}
	return &ws, nil
}

// GetProgramStatus возвращает статус программы бесплатных коннекторов.
// Если статус ещё не загружен, все флаги nil.
func (s *Storage) GetProgramStatus(ctx context.Context, workspaceID uuid.UUID) (models.ProgramStatus, error) {
	const op = "storage.GetProgramStatus"

	var eligible, nonEligible, enrolled sql.NullBool
	err := s.DB.QueryRowContext(ctx, `SELECT has_eligible_connections, has_non_eligible_connections, is_enrolled
		FROM program_status WHERE workspace_id = $1`, workspaceID).
		Scan(&eligible, &nonEligible, &enrolled)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ProgramStatus{}, nil
	}
	if err != nil {
		return models.ProgramStatus{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.ProgramStatus{
		HasEligibleConnections:    nullBool(eligible),
		HasNonEligibleConnections: nullBool(nonEligible),
		IsEnrolled:                nullBool(enrolled),
	}, nil
}

func nullBool(b sql.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}
