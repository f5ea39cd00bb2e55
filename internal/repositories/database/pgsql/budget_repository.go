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

const budgetLineColumns = `
	budget_line_id, description, month, allocated, consumed, classification,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxBudgetRepository struct {
	BaseRepository
}

// NewBudgetRepository creates a new repository for budget line data.
func NewBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryWithTx {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepositoryWithTx = (*PgxBudgetRepository)(nil)

func scanBudgetLine(row pgxRow) (*domain.BudgetLine, error) {
	var m models.BudgetLine
	err := row.Scan(
		&m.BudgetLineID,
		&m.Description,
		&m.Month,
		&m.Allocated,
		&m.Consumed,
		&m.Classification,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainBudgetLine(m)
	return &d, nil
}

// FindBudgetLine retrieves a budget line by its (description, month) key.
func (r *PgxBudgetRepository) FindBudgetLine(ctx context.Context, description, month string) (*domain.BudgetLine, error) {
	query := `SELECT ` + budgetLineColumns + ` FROM budget_lines WHERE description = $1 AND month = $2;`
	line, err := scanBudgetLine(r.Pool.QueryRow(ctx, query, description, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find budget line "+description+"/"+month, err)
	}
	return line, nil
}

// FindBudgetLineForUpdate selects and row-locks a budget line within tx.
func (r *PgxBudgetRepository) FindBudgetLineForUpdate(ctx context.Context, tx pgx.Tx, description, month string) (*domain.BudgetLine, error) {
	query := `SELECT ` + budgetLineColumns + ` FROM budget_lines WHERE description = $1 AND month = $2 FOR UPDATE;`
	line, err := scanBudgetLine(tx.QueryRow(ctx, query, description, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock budget line "+description+"/"+month, err)
	}
	return line, nil
}

// ListBudgetLines retrieves budget lines, optionally restricted to one month.
func (r *PgxBudgetRepository) ListBudgetLines(ctx context.Context, month string) ([]domain.BudgetLine, error) {
	query := `SELECT ` + budgetLineColumns + ` FROM budget_lines`
	args := []any{}
	if month != "" {
		query += ` WHERE month = $1`
		args = append(args, month)
	}
	query += ` ORDER BY month, description;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query budget lines", err)
	}
	defer rows.Close()

	lines := []domain.BudgetLine{}
	for rows.Next() {
		line, err := scanBudgetLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan budget line row", err)
		}
		lines = append(lines, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating budget line rows", err)
	}
	return lines, nil
}

// SaveBudgetLine persists a new budget line. A duplicate (description, month)
// key maps to ErrDuplicate.
func (r *PgxBudgetRepository) SaveBudgetLine(ctx context.Context, line domain.BudgetLine) error {
	m := mapping.ToModelBudgetLine(line)
	query := `
		INSERT INTO budget_lines (` + budgetLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (description, month) DO NOTHING;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.BudgetLineID,
		m.Description,
		m.Month,
		m.Allocated,
		m.Consumed,
		m.Classification,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert budget line "+m.Description+"/"+m.Month, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDuplicate
	}
	return nil
}

// IncrementConsumedInTx adds amount to the consumed total within tx.
// The database check constraint keeps consumed monotonic.
func (r *PgxBudgetRepository) IncrementConsumedInTx(ctx context.Context, tx pgx.Tx, budgetLineID string, amount decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE budget_lines
		SET consumed = consumed + $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE budget_line_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, budgetLineID, amount, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to increment consumption on budget line "+budgetLineID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("budget line " + budgetLineID + " not found for update")
	}
	return nil
}
