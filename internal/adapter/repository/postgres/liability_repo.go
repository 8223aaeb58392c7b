package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// liabilityRepository implements domain.LiabilityRepository
type liabilityRepository struct {
	db *DB
}

// NewLiabilityRepository creates a new liability repository
func NewLiabilityRepository(db *DB) domain.LiabilityRepository {
	return &liabilityRepository{db: db}
}

const liabilityColumns = `id, asset_id, concept_id, total_amount_usd, installments_total, installments_remaining, installment_amount_usd, remaining_balance_usd`

// Create creates a new liability
func (r *liabilityRepository) Create(ctx context.Context, l *domain.Liability) error {
	query := `
		INSERT INTO liabilities (` + liabilityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var conceptID interface{}
	if l.ConceptID != nil {
		conceptID = *l.ConceptID
	}

	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.AssetID,
		conceptID,
		l.TotalAmountUSD.String(),
		l.InstallmentsTotal,
		l.InstallmentsRemaining,
		l.InstallmentAmountUSD.String(),
		l.RemainingBalanceUSD.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to create liability: %w", err)
	}

	return nil
}

// GetByID retrieves a liability by its ID
func (r *liabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Liability, error) {
	return r.getByColumn(ctx, "id", id)
}

// GetByAssetID retrieves the liability attached to an asset
func (r *liabilityRepository) GetByAssetID(ctx context.Context, assetID uuid.UUID) (*domain.Liability, error) {
	return r.getByColumn(ctx, "asset_id", assetID)
}

// GetByConceptID retrieves the liability linked to a concept
func (r *liabilityRepository) GetByConceptID(ctx context.Context, conceptID uuid.UUID) (*domain.Liability, error) {
	return r.getByColumn(ctx, "concept_id", conceptID)
}

func (r *liabilityRepository) getByColumn(ctx context.Context, column string, value uuid.UUID) (*domain.Liability, error) {
	query := `SELECT ` + liabilityColumns + ` FROM liabilities WHERE ` + column + ` = $1`

	var liability domain.Liability
	var conceptID sql.NullString
	var totalStr, installmentStr, balanceStr string

	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&liability.ID,
		&liability.AssetID,
		&conceptID,
		&totalStr,
		&liability.InstallmentsTotal,
		&liability.InstallmentsRemaining,
		&installmentStr,
		&balanceStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("liability with %s=%s: %w", column, value, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get liability by %s: %w", column, err)
	}

	if conceptID.Valid {
		parsed, err := uuid.Parse(conceptID.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse concept_id: %w", err)
		}
		liability.ConceptID = &parsed
	}

	if liability.TotalAmountUSD, err = decimal.NewFromString(totalStr); err != nil {
		return nil, fmt.Errorf("failed to parse total_amount_usd: %w", err)
	}
	if liability.InstallmentAmountUSD, err = decimal.NewFromString(installmentStr); err != nil {
		return nil, fmt.Errorf("failed to parse installment_amount_usd: %w", err)
	}
	if liability.RemainingBalanceUSD, err = decimal.NewFromString(balanceStr); err != nil {
		return nil, fmt.Errorf("failed to parse remaining_balance_usd: %w", err)
	}

	return &liability, nil
}

// UpdateCachedFields persists the liability's remaining balance and remaining
// installment count after a payment is applied
func (r *liabilityRepository) UpdateCachedFields(ctx context.Context, l *domain.Liability) error {
	query := `
		UPDATE liabilities
		SET remaining_balance_usd = $2, installments_remaining = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.RemainingBalanceUSD.String(),
		l.InstallmentsRemaining,
	)
	if err != nil {
		return fmt.Errorf("failed to update liability cached fields: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("liability %s: %w", l.ID, domain.ErrNotFound)
	}

	return nil
}

// AddPayment appends an immutable payment audit record
func (r *liabilityRepository) AddPayment(ctx context.Context, p *domain.LiabilityPayment) error {
	query := `
		INSERT INTO liability_payments (
			id, liability_id, source_movement_id, date, amount_usd,
			balance_before, balance_after,
			installments_remaining_before, installments_remaining_after
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.LiabilityID,
		p.SourceMovementID,
		p.Date,
		p.AmountUSD.String(),
		p.BalanceBefore.String(),
		p.BalanceAfter.String(),
		p.InstallmentsRemainingBefore,
		p.InstallmentsRemainingAfter,
	)
	if err != nil {
		return fmt.Errorf("failed to add liability payment: %w", err)
	}

	return nil
}

// ListPayments retrieves a liability's payments ordered ascending by date
func (r *liabilityRepository) ListPayments(ctx context.Context, liabilityID uuid.UUID) ([]*domain.LiabilityPayment, error) {
	query := `
		SELECT id, liability_id, source_movement_id, date, amount_usd,
		       balance_before, balance_after,
		       installments_remaining_before, installments_remaining_after
		FROM liability_payments
		WHERE liability_id = $1
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, liabilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liability payments: %w", err)
	}
	defer rows.Close()

	var payments []*domain.LiabilityPayment
	for rows.Next() {
		var p domain.LiabilityPayment
		var amountStr, beforeStr, afterStr string

		if err := rows.Scan(
			&p.ID,
			&p.LiabilityID,
			&p.SourceMovementID,
			&p.Date,
			&amountStr,
			&beforeStr,
			&afterStr,
			&p.InstallmentsRemainingBefore,
			&p.InstallmentsRemainingAfter,
		); err != nil {
			return nil, fmt.Errorf("failed to scan liability payment: %w", err)
		}

		if p.AmountUSD, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse amount_usd: %w", err)
		}
		if p.BalanceBefore, err = decimal.NewFromString(beforeStr); err != nil {
			return nil, fmt.Errorf("failed to parse balance_before: %w", err)
		}
		if p.BalanceAfter, err = decimal.NewFromString(afterStr); err != nil {
			return nil, fmt.Errorf("failed to parse balance_after: %w", err)
		}

		payments = append(payments, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate liability payments: %w", err)
	}

	return payments, nil
}
