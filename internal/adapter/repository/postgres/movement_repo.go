package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// movementRepository implements domain.MovementRepository
type movementRepository struct {
	db *DB
}

// NewMovementRepository creates a new movement repository
func NewMovementRepository(db *DB) domain.MovementRepository {
	return &movementRepository{db: db}
}

// Create creates a new movement
func (r *movementRepository) Create(ctx context.Context, m *domain.Movement) error {
	query := `
		INSERT INTO movements (id, kind, amount_usd, original_currency, exchange_rate_applied, date, status, concept_id, month_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.Kind,
		m.AmountUSD.String(),
		m.OriginalCurrency,
		m.ExchangeRateApplied.String(),
		m.Date,
		m.Status,
		m.ConceptID,
		m.MonthID,
	)
	if err != nil {
		return fmt.Errorf("failed to create movement: %w", err)
	}

	return nil
}

// ListByMonth retrieves a month's movements ordered ascending by date
func (r *movementRepository) ListByMonth(ctx context.Context, monthID uuid.UUID) ([]*domain.Movement, error) {
	query := `
		SELECT id, kind, amount_usd, original_currency, exchange_rate_applied, date, status, concept_id, month_id
		FROM movements
		WHERE month_id = $1
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, monthID)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	var movements []*domain.Movement
	for rows.Next() {
		var m domain.Movement
		var amountStr, rateStr string

		if err := rows.Scan(
			&m.ID,
			&m.Kind,
			&amountStr,
			&m.OriginalCurrency,
			&rateStr,
			&m.Date,
			&m.Status,
			&m.ConceptID,
			&m.MonthID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}

		if m.AmountUSD, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse amount_usd: %w", err)
		}
		if m.ExchangeRateApplied, err = decimal.NewFromString(rateStr); err != nil {
			return nil, fmt.Errorf("failed to parse exchange_rate_applied: %w", err)
		}

		movements = append(movements, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movements: %w", err)
	}

	return movements, nil
}
