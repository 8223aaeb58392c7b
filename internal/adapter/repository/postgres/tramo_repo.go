package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// tramoRepository implements domain.TramoRepository
type tramoRepository struct {
	db *DB
}

// NewTramoRepository creates a new projection segment repository
func NewTramoRepository(db *DB) domain.TramoRepository {
	return &tramoRepository{db: db}
}

// Add appends a projection segment to a fund
func (r *tramoRepository) Add(ctx context.Context, t *domain.Tramo) error {
	query := `
		INSERT INTO tramos (
			id, fund_id, start_date, end_date,
			expected_rate_annual_pct, assumed_inflation_annual_pct,
			monthly_contribution_usd, opening_capital_usd
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var endDate interface{}
	if t.EndDate != nil {
		endDate = *t.EndDate
	}

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.FundID,
		t.StartDate,
		endDate,
		t.ExpectedRateAnnualPct.String(),
		t.AssumedInflationAnnualPct.String(),
		t.MonthlyContributionUSD.String(),
		t.OpeningCapitalUSD.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to add tramo: %w", err)
	}

	return nil
}

// ListByFund retrieves a fund's segments ordered ascending by start date
func (r *tramoRepository) ListByFund(ctx context.Context, fundID uuid.UUID) ([]*domain.Tramo, error) {
	query := `
		SELECT id, fund_id, start_date, end_date,
		       expected_rate_annual_pct, assumed_inflation_annual_pct,
		       monthly_contribution_usd, opening_capital_usd
		FROM tramos
		WHERE fund_id = $1
		ORDER BY start_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tramos: %w", err)
	}
	defer rows.Close()

	var tramos []*domain.Tramo
	for rows.Next() {
		var t domain.Tramo
		var endDate sql.NullTime
		var rateStr, inflationStr, contributionStr, openingStr string

		if err := rows.Scan(
			&t.ID,
			&t.FundID,
			&t.StartDate,
			&endDate,
			&rateStr,
			&inflationStr,
			&contributionStr,
			&openingStr,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tramo: %w", err)
		}

		if endDate.Valid {
			t.EndDate = &endDate.Time
		}

		if t.ExpectedRateAnnualPct, err = decimal.NewFromString(rateStr); err != nil {
			return nil, fmt.Errorf("failed to parse expected_rate_annual_pct: %w", err)
		}
		if t.AssumedInflationAnnualPct, err = decimal.NewFromString(inflationStr); err != nil {
			return nil, fmt.Errorf("failed to parse assumed_inflation_annual_pct: %w", err)
		}
		if t.MonthlyContributionUSD, err = decimal.NewFromString(contributionStr); err != nil {
			return nil, fmt.Errorf("failed to parse monthly_contribution_usd: %w", err)
		}
		if t.OpeningCapitalUSD, err = decimal.NewFromString(openingStr); err != nil {
			return nil, fmt.Errorf("failed to parse opening_capital_usd: %w", err)
		}

		tramos = append(tramos, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tramos: %w", err)
	}

	return tramos, nil
}
