package pgsql

import (
	"context"

	"github.com/ASOFES/R-quisitions-sub001/internal/apperrors"
	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	portsrepo "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/repositories"
	"github.com/ASOFES/R-quisitions-sub001/internal/models"
	"github.com/ASOFES/R-quisitions-sub001/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxActionRecordRepository struct {
	BaseRepository
}

// NewActionRecordRepository creates a new repository for the audit trail.
func NewActionRecordRepository(pool *pgxpool.Pool) portsrepo.ActionRecordRepositoryFacade {
	return &PgxActionRecordRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ActionRecordRepositoryFacade = (*PgxActionRecordRepository)(nil)

// InsertActionRecordInTx appends one audit record within tx.
func (r *PgxActionRecordRepository) InsertActionRecordInTx(ctx context.Context, tx pgx.Tx, record domain.ActionRecord) error {
	m := mapping.ToModelActionRecord(record)
	query := `
		INSERT INTO action_records (action_record_id, requisition_id, actor_id, action, from_level, to_level, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, query,
		m.ActionRecordID,
		m.RequisitionID,
		m.ActorID,
		m.Action,
		m.FromLevel,
		m.ToLevel,
		m.Comment,
		m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert action record for requisition "+m.RequisitionID, err)
	}
	return nil
}

// ListActionRecords returns the audit trail of a requisition, oldest first.
func (r *PgxActionRecordRepository) ListActionRecords(ctx context.Context, requisitionID string) ([]domain.ActionRecord, error) {
	query := `
		SELECT action_record_id, requisition_id, actor_id, action, from_level, to_level, comment, created_at
		FROM action_records
		WHERE requisition_id = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, requisitionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query action records for "+requisitionID, err)
	}
	defer rows.Close()

	records := []domain.ActionRecord{}
	for rows.Next() {
		var m models.ActionRecord
		if err := rows.Scan(&m.ActionRecordID, &m.RequisitionID, &m.ActorID, &m.Action, &m.FromLevel, &m.ToLevel, &m.Comment, &m.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan action record row", err)
		}
		records = append(records, mapping.ToDomainActionRecord(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating action record rows", err)
	}
	return records, nil
}
