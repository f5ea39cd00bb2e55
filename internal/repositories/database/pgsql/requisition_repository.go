package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ASOFES/R-quisitions-sub001/internal/apperrors"
	"github.com/ASOFES/R-quisitions-sub001/internal/core/domain"
	portsrepo "github.com/ASOFES/R-quisitions-sub001/internal/core/ports/repositories"
	"github.com/ASOFES/R-quisitions-sub001/internal/models"
	"github.com/ASOFES/R-quisitions-sub001/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const requisitionColumns = `
	requisition_id, number, amount_usd, amount_cdf, level, status,
	issuer_id, service_id, return_level, budget_impacted, payment_mode, version,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxRequisitionRepository struct {
	BaseRepository
}

// NewRequisitionRepository creates a new repository for requisition and line item data.
func NewRequisitionRepository(pool *pgxpool.Pool) portsrepo.RequisitionRepositoryWithTx {
	return &PgxRequisitionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RequisitionRepositoryWithTx = (*PgxRequisitionRepository)(nil)

type pgxRow interface {
	Scan(dest ...any) error
}

func scanRequisition(row pgxRow) (*domain.Requisition, error) {
	var m models.Requisition
	var returnLevel, paymentMode sql.NullString
	err := row.Scan(
		&m.RequisitionID,
		&m.Number,
		&m.AmountUSD,
		&m.AmountCDF,
		&m.Level,
		&m.Status,
		&m.IssuerID,
		&m.ServiceID,
		&returnLevel,
		&m.BudgetImpacted,
		&paymentMode,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if returnLevel.Valid {
		m.ReturnLevel = &returnLevel.String
	}
	if paymentMode.Valid {
		m.PaymentMode = &paymentMode.String
	}
	d := mapping.ToDomainRequisition(m)
	return &d, nil
}

// SaveRequisition persists a new requisition and its line items in one transaction.
func (r *PgxRequisitionRepository) SaveRequisition(ctx context.Context, requisition domain.Requisition, items []domain.LineItem) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		m := mapping.ToModelRequisition(requisition)
		query := `
			INSERT INTO requisitions (` + requisitionColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
		`
		_, err := tx.Exec(ctx, query,
			m.RequisitionID,
			m.Number,
			m.AmountUSD,
			m.AmountCDF,
			m.Level,
			m.Status,
			m.IssuerID,
			m.ServiceID,
			m.ReturnLevel,
			m.BudgetImpacted,
			m.PaymentMode,
			m.Version,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to insert requisition "+m.RequisitionID, err)
		}
		return r.insertLineItems(ctx, tx, items)
	})
}

// ReplaceLineItemsInTx deletes and reinserts the line items of a requisition
// within tx.
func (r *PgxRequisitionRepository) ReplaceLineItemsInTx(ctx context.Context, tx pgx.Tx, requisitionID string, items []domain.LineItem) error {
	if _, err := tx.Exec(ctx, `DELETE FROM line_items WHERE requisition_id = $1;`, requisitionID); err != nil {
		return apperrors.NewAppError(500, "failed to delete line items for requisition "+requisitionID, err)
	}
	return r.insertLineItems(ctx, tx, items)
}

// UpdateAmountsInTx rewrites the per-currency totals after a line-item edit.
func (r *PgxRequisitionRepository) UpdateAmountsInTx(ctx context.Context, tx pgx.Tx, requisitionID string, amountUSD, amountCDF *decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE requisitions
		SET amount_usd = $2,
		    amount_cdf = $3,
		    version = version + 1,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE requisition_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, requisitionID, amountUSD, amountCDF, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update amounts for requisition "+requisitionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("requisition not found: " + requisitionID)
	}
	return nil
}

func (r *PgxRequisitionRepository) insertLineItems(ctx context.Context, tx pgx.Tx, items []domain.LineItem) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO line_items (line_item_id, requisition_id, description, quantity, unit_price, total, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, item := range items {
		m := mapping.ToModelLineItem(item)
		batch.Queue(query, m.LineItemID, m.RequisitionID, m.Description, m.Quantity, m.UnitPrice, m.Total, m.Currency)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line item batch", err)
	}
	return nil
}

// FindRequisitionByID retrieves a requisition by its ID, without line items.
func (r *PgxRequisitionRepository) FindRequisitionByID(ctx context.Context, requisitionID string) (*domain.Requisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM requisitions WHERE requisition_id = $1;`
	req, err := scanRequisition(r.Pool.QueryRow(ctx, query, requisitionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find requisition "+requisitionID, err)
	}
	return req, nil
}

// FindRequisitionForUpdate selects and row-locks a requisition within tx.
func (r *PgxRequisitionRepository) FindRequisitionForUpdate(ctx context.Context, tx pgx.Tx, requisitionID string) (*domain.Requisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM requisitions WHERE requisition_id = $1 FOR UPDATE;`
	req, err := scanRequisition(tx.QueryRow(ctx, query, requisitionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock requisition "+requisitionID, err)
	}
	return req, nil
}

const lineItemQuery = `
	SELECT line_item_id, requisition_id, description, quantity, unit_price, total, currency
	FROM line_items
	WHERE requisition_id = $1
	ORDER BY line_item_id;
`

func scanLineItems(rows pgx.Rows) ([]domain.LineItem, error) {
	defer rows.Close()
	items := []models.LineItem{}
	for rows.Next() {
		var m models.LineItem
		if err := rows.Scan(&m.LineItemID, &m.RequisitionID, &m.Description, &m.Quantity, &m.UnitPrice, &m.Total, &m.Currency); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line item row", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line item rows", err)
	}
	return mapping.ToDomainLineItemSlice(items), nil
}

// FindLineItems retrieves the line items of a requisition.
func (r *PgxRequisitionRepository) FindLineItems(ctx context.Context, requisitionID string) ([]domain.LineItem, error) {
	rows, err := r.Pool.Query(ctx, lineItemQuery, requisitionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items for "+requisitionID, err)
	}
	return scanLineItems(rows)
}

// FindLineItemsInTx retrieves the line items of a requisition within tx.
func (r *PgxRequisitionRepository) FindLineItemsInTx(ctx context.Context, tx pgx.Tx, requisitionID string) ([]domain.LineItem, error) {
	rows, err := tx.Query(ctx, lineItemQuery, requisitionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items for "+requisitionID, err)
	}
	return scanLineItems(rows)
}

// UpdateTransitionInTx writes the post-transition requisition state, guarded
// by the version the engine read. Zero rows affected means a concurrent
// writer won; the caller gets ErrStaleState and may retry.
func (r *PgxRequisitionRepository) UpdateTransitionInTx(ctx context.Context, tx pgx.Tx, requisition domain.Requisition, expectedVersion int64) error {
	m := mapping.ToModelRequisition(requisition)
	query := `
		UPDATE requisitions
		SET level = $2,
		    status = $3,
		    return_level = $4,
		    budget_impacted = $5,
		    payment_mode = $6,
		    version = version + 1,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE requisition_id = $1 AND version = $9;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.RequisitionID,
		m.Level,
		m.Status,
		m.ReturnLevel,
		m.BudgetImpacted,
		m.PaymentMode,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		expectedVersion,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update requisition "+m.RequisitionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStaleState
	}
	return nil
}

// ListStalledRequisitions returns requisitions stuck at a level since before cutoff.
func (r *PgxRequisitionRepository) ListStalledRequisitions(ctx context.Context, level domain.Level, cutoff time.Time, excludedStatuses []domain.Status) ([]domain.Requisition, error) {
	excluded := make([]string, len(excludedStatuses))
	for i, s := range excludedStatuses {
		excluded[i] = string(s)
	}
	query := `
		SELECT ` + requisitionColumns + `
		FROM requisitions
		WHERE level = $1 AND last_updated_at < $2 AND status != ALL($3)
		ORDER BY last_updated_at;
	`
	rows, err := r.Pool.Query(ctx, query, string(level), cutoff, excluded)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query stalled requisitions at level "+string(level), err)
	}
	return collectRequisitions(rows)
}

// ListUnimpactedSettled returns settled requisitions whose budget was never consumed.
func (r *PgxRequisitionRepository) ListUnimpactedSettled(ctx context.Context, statuses []domain.Status) ([]domain.Requisition, error) {
	wanted := make([]string, len(statuses))
	for i, s := range statuses {
		wanted[i] = string(s)
	}
	query := `
		SELECT ` + requisitionColumns + `
		FROM requisitions
		WHERE budget_impacted = FALSE AND status = ANY($1)
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, wanted)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query unimpacted requisitions", err)
	}
	return collectRequisitions(rows)
}

func collectRequisitions(rows pgx.Rows) ([]domain.Requisition, error) {
	defer rows.Close()
	requisitions := []domain.Requisition{}
	for rows.Next() {
		req, err := scanRequisition(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan requisition row", err)
		}
		requisitions = append(requisitions, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating requisition rows", err)
	}
	return requisitions, nil
}
