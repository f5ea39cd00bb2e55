package repositories

import (
	"context"

	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ActionRecordRepositoryFacade persists the append-only audit trail.
// There is no update or delete path.
type ActionRecordRepositoryFacade interface {
	// InsertActionRecordInTx appends one record within the transaction of the
	// transition it documents.
	InsertActionRecordInTx(ctx context.Context, tx pgx.Tx, record domain.ActionRecord) error

	// ListActionRecords returns the records of a requisition ordered by
	// timestamp ascending.
	ListActionRecords(ctx context.Context, requisitionID string) ([]domain.ActionRecord, error)
}

// WorkflowSettingRepositoryFacade manages per-level escalation delays.
type WorkflowSettingRepositoryFacade interface {
	// ListWorkflowSettings retrieves every configured level delay.
	ListWorkflowSettings(ctx context.Context) ([]domain.WorkflowSetting, error)

	// UpsertWorkflowSetting creates or updates the delay for a level.
	UpsertWorkflowSetting(ctx context.Context, setting domain.WorkflowSetting) error
}

// AppSettingRepositoryFacade reads named application settings, such as the
// USD/CDF exchange rate used for budget normalization.
type AppSettingRepositoryFacade interface {
	// GetDecimalSetting retrieves a setting parsed as a decimal.
	GetDecimalSetting(ctx context.Context, key string) (decimal.Decimal, error)

	// SetSetting stores a setting value.
	SetSetting(ctx context.Context, key, value, userID string) error
}

// OrgServiceRepositoryFacade reads organizational unit reference data.
type OrgServiceRepositoryFacade interface {
	// FindServiceByID retrieves a service, including its designated
	// supervisor when one is set.
	FindServiceByID(ctx context.Context, serviceID string) (*domain.OrgService, error)
}
