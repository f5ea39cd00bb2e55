package services

import (
	"context"

	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AuditSvcFacade is the append-only transition log.
type AuditSvcFacade interface {
	// AppendInTx records one transition within the same transaction that
	// performs it.
	AppendInTx(ctx context.Context, tx pgx.Tx, requisitionID, actorID string, action domain.Action, fromLevel, toLevel domain.Level, comment string) error

	// List returns a requisition's records ordered by timestamp ascending.
	List(ctx context.Context, requisitionID string) ([]domain.ActionRecord, error)
}
