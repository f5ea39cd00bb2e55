package pgsql

import (
	"context"
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

type PgxTreasuryRepository struct {
	BaseRepository
}

// NewTreasuryRepository creates a new repository for fund, movement and payment data.
func NewTreasuryRepository(pool *pgxpool.Pool) portsrepo.TreasuryRepositoryWithTx {
	return &PgxTreasuryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TreasuryRepositoryWithTx = (*PgxTreasuryRepository)(nil)

const fundColumns = `currency, available, created_at, created_by, last_updated_at, last_updated_by`

// ListFunds retrieves all fund balances.
func (r *PgxTreasuryRepository) ListFunds(ctx context.Context) ([]domain.Fund, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+fundColumns+` FROM funds ORDER BY currency;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query funds", err)
	}
	defer rows.Close()

	funds := []domain.Fund{}
	for rows.Next() {
		var m models.Fund
		if err := rows.Scan(&m.Currency, &m.Available, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fund row", err)
		}
		funds = append(funds, mapping.ToDomainFund(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating fund rows", err)
	}
	return funds, nil
}

// FindFundsForUpdate selects and row-locks the funds for the given currencies
// within tx. Every requested currency must exist.
func (r *PgxTreasuryRepository) FindFundsForUpdate(ctx context.Context, tx pgx.Tx, currencies []string) (map[string]domain.Fund, error) {
	// Ordered locking avoids deadlocks between concurrent settlements.
	query := `SELECT ` + fundColumns + ` FROM funds WHERE currency = ANY($1) ORDER BY currency FOR UPDATE;`
	rows, err := tx.Query(ctx, query, currencies)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock funds", err)
	}
	defer rows.Close()

	funds := make(map[string]domain.Fund, len(currencies))
	for rows.Next() {
		var m models.Fund
		if err := rows.Scan(&m.Currency, &m.Available, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan locked fund row", err)
		}
		funds[m.Currency] = mapping.ToDomainFund(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating locked fund rows", err)
	}
	for _, currency := range currencies {
		if _, ok := funds[currency]; !ok {
			return nil, apperrors.NewNotFoundError("fund for currency " + currency + " not found")
		}
	}
	return funds, nil
}

// UpdateFundBalanceInTx sets a fund's available balance within tx.
func (r *PgxTreasuryRepository) UpdateFundBalanceInTx(ctx context.Context, tx pgx.Tx, currency string, available decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE funds
		SET available = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE currency = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, currency, available, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update fund balance for "+currency, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("fund for currency " + currency + " not found for update")
	}
	return nil
}

// InsertFundMovementInTx appends a movement row within tx.
func (r *PgxTreasuryRepository) InsertFundMovementInTx(ctx context.Context, tx pgx.Tx, movement domain.FundMovement) error {
	m := mapping.ToModelFundMovement(movement)
	query := `
		INSERT INTO fund_movements (movement_id, type, amount, currency, description, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := tx.Exec(ctx, query, m.MovementID, m.Type, m.Amount, m.Currency, m.Description, m.CreatedAt, m.CreatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert fund movement "+m.MovementID, err)
	}
	return nil
}

// ListFundMovements retrieves movements, newest first.
func (r *PgxTreasuryRepository) ListFundMovements(ctx context.Context, limit int) ([]domain.FundMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT movement_id, type, amount, currency, description, created_at, created_by
		FROM fund_movements
		ORDER BY created_at DESC
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query fund movements", err)
	}
	defer rows.Close()

	movements := []domain.FundMovement{}
	for rows.Next() {
		var m models.FundMovement
		if err := rows.Scan(&m.MovementID, &m.Type, &m.Amount, &m.Currency, &m.Description, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fund movement row", err)
		}
		movements = append(movements, mapping.ToDomainFundMovement(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating fund movement rows", err)
	}
	return movements, nil
}

const paymentColumns = `payment_id, requisition_id, amount_usd, amount_cdf, comment, paid_by, created_at`

func scanPayment(row pgxRow) (*domain.Payment, error) {
	var m models.Payment
	err := row.Scan(&m.PaymentID, &m.RequisitionID, &m.AmountUSD, &m.AmountCDF, &m.Comment, &m.PaidBy, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainPayment(m)
	return &d, nil
}

// FindPaymentByRequisitionID retrieves the payment recorded for a requisition.
func (r *PgxTreasuryRepository) FindPaymentByRequisitionID(ctx context.Context, requisitionID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE requisition_id = $1;`
	payment, err := scanPayment(r.Pool.QueryRow(ctx, query, requisitionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment for requisition "+requisitionID, err)
	}
	return payment, nil
}

// FindPaymentForUpdateInTx retrieves and locks the payment row for a requisition within tx.
func (r *PgxTreasuryRepository) FindPaymentForUpdateInTx(ctx context.Context, tx pgx.Tx, requisitionID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE requisition_id = $1 FOR UPDATE;`
	payment, err := scanPayment(tx.QueryRow(ctx, query, requisitionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock payment for requisition "+requisitionID, err)
	}
	return payment, nil
}

// InsertPaymentInTx inserts the payment row within tx. The unique constraint
// on requisition_id makes a duplicate insert a reported no-op rather than an
// error.
func (r *PgxTreasuryRepository) InsertPaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) (bool, error) {
	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (requisition_id) DO NOTHING;
	`
	cmdTag, err := tx.Exec(ctx, query, m.PaymentID, m.RequisitionID, m.AmountUSD, m.AmountCDF, m.Comment, m.PaidBy, m.CreatedAt)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to insert payment for requisition "+m.RequisitionID, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}
