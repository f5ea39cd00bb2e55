package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/ASOFES/R-quisitions-sub001/internal/apperrors"
	portsrepo "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAppSettingRepository struct {
	BaseRepository
}

// NewAppSettingRepository creates a new repository for named application settings.
func NewAppSettingRepository(pool *pgxpool.Pool) portsrepo.AppSettingRepositoryFacade {
	return &PgxAppSettingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AppSettingRepositoryFacade = (*PgxAppSettingRepository)(nil)

// GetDecimalSetting retrieves a setting parsed as a decimal.
func (r *PgxAppSettingRepository) GetDecimalSetting(ctx context.Context, key string) (decimal.Decimal, error) {
	query := `SELECT value FROM app_settings WHERE key = $1;`
	var raw string
	err := r.Pool.QueryRow(ctx, query, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.NewNotFoundError("setting not found: " + key)
		}
		return decimal.Zero, apperrors.NewAppError(500, "failed to query setting "+key, err)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "setting "+key+" is not a valid decimal", err)
	}
	return value, nil
}

// SetSetting stores a setting value, creating the row when absent.
func (r *PgxAppSettingRepository) SetSetting(ctx context.Context, key, value, userID string) error {
	query := `
		INSERT INTO app_settings (key, value, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query, key, value, time.Now(), userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to store setting "+key, err)
	}
	return nil
}
