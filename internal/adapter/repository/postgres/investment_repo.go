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

// investmentRepository implements domain.InvestmentRepository
type investmentRepository struct {
	db *DB
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db *DB) domain.InvestmentRepository {
	return &investmentRepository{db: db}
}

// Create creates a new investment
func (r *investmentRepository) Create(ctx context.Context, inv *domain.Investment) error {
	query := `
		INSERT INTO investments (id, name, kind, target_amount_usd, start_date, fiscal_status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		inv.ID,
		inv.Name,
		inv.Kind,
		inv.TargetAmountUSD.String(),
		inv.StartDate,
		inv.FiscalStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}

	return nil
}

// GetByID retrieves an investment by its ID
func (r *investmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	query := `
		SELECT id, name, kind, target_amount_usd, start_date, fiscal_status
		FROM investments
		WHERE id = $1
	`

	inv, err := scanInvestment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("investment %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}

	return inv, nil
}

// List retrieves all investments
func (r *investmentRepository) List(ctx context.Context) ([]*domain.Investment, error) {
	query := `
		SELECT id, name, kind, target_amount_usd, start_date, fiscal_status
		FROM investments
		ORDER BY start_date
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	defer rows.Close()

	var investments []*domain.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investments: %w", err)
	}

	return investments, nil
}

// Update persists changes to an investment's mutable fields
func (r *investmentRepository) Update(ctx context.Context, inv *domain.Investment) error {
	query := `
		UPDATE investments
		SET name = $2, kind = $3, target_amount_usd = $4, start_date = $5, fiscal_status = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		inv.ID,
		inv.Name,
		inv.Kind,
		inv.TargetAmountUSD.String(),
		inv.StartDate,
		inv.FiscalStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("investment %s: %w", inv.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes an investment and cascades to its events
func (r *investmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM investment_events WHERE investment_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete investment events: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM investments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit investment delete: %w", err)
	}

	return nil
}

// AddEvent appends an immutable ledger entry
func (r *investmentRepository) AddEvent(ctx context.Context, e *domain.InvestmentEvent) error {
	query := `
		INSERT INTO investment_events (id, investment_id, kind, amount_usd, date, note)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.InvestmentID,
		e.Kind,
		e.AmountUSD.String(),
		e.Date,
		e.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to add investment event: %w", err)
	}

	return nil
}

// ListEvents retrieves an investment's events ordered ascending by date
func (r *investmentRepository) ListEvents(ctx context.Context, investmentID uuid.UUID) ([]*domain.InvestmentEvent, error) {
	query := `
		SELECT id, investment_id, kind, amount_usd, date, note
		FROM investment_events
		WHERE investment_id = $1
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, investmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investment events: %w", err)
	}
	defer rows.Close()

	var events []*domain.InvestmentEvent
	for rows.Next() {
		var e domain.InvestmentEvent
		var amountStr string

		if err := rows.Scan(
			&e.ID,
			&e.InvestmentID,
			&e.Kind,
			&amountStr,
			&e.Date,
			&e.Note,
		); err != nil {
			return nil, fmt.Errorf("failed to scan investment event: %w", err)
		}

		if e.AmountUSD, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse amount_usd: %w", err)
		}

		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investment events: %w", err)
	}

	return events, nil
}

func scanInvestment(row rowScanner) (*domain.Investment, error) {
	var inv domain.Investment
	var targetStr string

	if err := row.Scan(
		&inv.ID,
		&inv.Name,
		&inv.Kind,
		&targetStr,
		&inv.StartDate,
		&inv.FiscalStatus,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan investment: %w", err)
	}

	target, err := decimal.NewFromString(targetStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse target_amount_usd: %w", err)
	}
	inv.TargetAmountUSD = target

	return &inv, nil
}
