package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	portsrepo "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/repositories"
	portssvc "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
)

// auditService maintains the append-only transition log. Records are never
// updated or deleted.
type auditService struct {
	actionRepo portsrepo.ActionRecordRepositoryFacade
}

// NewAuditService creates a new AuditService.
func NewAuditService(actionRepo portsrepo.ActionRecordRepositoryFacade) portssvc.AuditSvcFacade {
	return &auditService{actionRepo: actionRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// AppendInTx records one transition within the same transaction that performs
// it, so the record exists exactly when the transition does.
func (s *auditService) AppendInTx(ctx context.Context, tx pgx.Tx, requisitionID, actorID string, action domain.Action, fromLevel, toLevel domain.Level, comment string) error {
	record := domain.ActionRecord{
		ActionRecordID: uuid.NewString(),
		RequisitionID:  requisitionID,
		ActorID:        actorID,
		Action:         action,
		FromLevel:      fromLevel,
		ToLevel:        toLevel,
		Comment:        comment,
		CreatedAt:      time.Now().UTC(),
	}
	return s.actionRepo.InsertActionRecordInTx(ctx, tx, record)
}

// List returns a requisition's records ordered by timestamp ascending.
func (s *auditService) List(ctx context.Context, requisitionID string) ([]domain.ActionRecord, error) {
	return s.actionRepo.ListActionRecords(ctx, requisitionID)
}
