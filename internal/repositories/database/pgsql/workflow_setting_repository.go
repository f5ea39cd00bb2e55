package pgsql

import (
	"context"

	"github.com/ASOFES/R-quisitions-sub001/internal/apperrors"
	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	portsrepo "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/repositories"
	"github.com/ASOFES/R-quisitions-sub001/internal/models"
	"github.com/ASOFES/R-quisitions-sub001/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxWorkflowSettingRepository struct {
	BaseRepository
}

// NewWorkflowSettingRepository creates a new repository for level delay configuration.
func NewWorkflowSettingRepository(pool *pgxpool.Pool) portsrepo.WorkflowSettingRepositoryFacade {
	return &PgxWorkflowSettingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WorkflowSettingRepositoryFacade = (*PgxWorkflowSettingRepository)(nil)

// ListWorkflowSettings retrieves every configured level delay.
func (r *PgxWorkflowSettingRepository) ListWorkflowSettings(ctx context.Context) ([]domain.WorkflowSetting, error) {
	query := `
		SELECT level, delay_minutes, created_at, created_by, last_updated_at, last_updated_by
		FROM workflow_settings
		ORDER BY level;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query workflow settings", err)
	}
	defer rows.Close()

	settings := []domain.WorkflowSetting{}
	for rows.Next() {
		var m models.WorkflowSetting
		if err := rows.Scan(&m.Level, &m.DelayMinutes, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan workflow setting row", err)
		}
		settings = append(settings, mapping.ToDomainWorkflowSetting(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating workflow setting rows", err)
	}
	return settings, nil
}

// UpsertWorkflowSetting creates or updates the delay for a level.
func (r *PgxWorkflowSettingRepository) UpsertWorkflowSetting(ctx context.Context, setting domain.WorkflowSetting) error {
	query := `
		INSERT INTO workflow_settings (level, delay_minutes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (level) DO UPDATE
		SET delay_minutes = EXCLUDED.delay_minutes,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		string(setting.Level),
		setting.DelayMinutes,
		setting.CreatedAt,
		setting.CreatedBy,
		setting.LastUpdatedAt,
		setting.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert workflow setting for level "+string(setting.Level), err)
	}
	return nil
}
