package pgsql

import (
	"context"
	"errors"

	"github.com/ASOFES/R-quisitions-sub001/internal/apperrors"
	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	portsrepo "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/repositories"
	"github.com/ASOFES/R-quisitions-sub001/internal/models"
	"github.com/ASOFES/R-quisitions-sub001/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOrgServiceRepository struct {
	BaseRepository
}

// NewOrgServiceRepository creates a new repository for organizational units.
func NewOrgServiceRepository(pool *pgxpool.Pool) portsrepo.OrgServiceRepositoryFacade {
	return &PgxOrgServiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OrgServiceRepositoryFacade = (*PgxOrgServiceRepository)(nil)

// FindServiceByID retrieves a service with its designated supervisor.
func (r *PgxOrgServiceRepository) FindServiceByID(ctx context.Context, serviceID string) (*domain.OrgService, error) {
	query := `
		SELECT service_id, name, supervisor_id, created_at, created_by, last_updated_at, last_updated_by
		FROM services
		WHERE service_id = $1;
	`
	var m models.OrgService
	err := r.Pool.QueryRow(ctx, query, serviceID).Scan(
		&m.ServiceID, &m.Name, &m.SupervisorID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("service not found: " + serviceID)
		}
		return nil, apperrors.NewAppError(500, "failed to query service "+serviceID, err)
	}
	svc := mapping.ToDomainOrgService(m)
	return &svc, nil
}
