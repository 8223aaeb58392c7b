package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// exchangeRateRepository implements domain.ExchangeRateRepository
type exchangeRateRepository struct {
	db *DB
}

// NewExchangeRateRepository creates a new exchange rate repository
func NewExchangeRateRepository(db *DB) domain.ExchangeRateRepository {
	return &exchangeRateRepository{db: db}
}

// Add appends a historical quote
func (r *exchangeRateRepository) Add(ctx context.Context, rate *domain.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (date, rate)
		VALUES ($1, $2)
	`

	_, err := r.db.ExecContext(ctx, query, rate.Date, rate.Rate.String())
	if err != nil {
		return fmt.Errorf("failed to add exchange rate: %w", err)
	}

	return nil
}

// ListDescending retrieves the full rate table sorted descending by date
func (r *exchangeRateRepository) ListDescending(ctx context.Context) ([]*domain.ExchangeRate, error) {
	query := `
		SELECT date, rate
		FROM exchange_rates
		ORDER BY date DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	defer rows.Close()

	var rates []*domain.ExchangeRate
	for rows.Next() {
		var rate domain.ExchangeRate
		var rateStr string

		if err := rows.Scan(&rate.Date, &rateStr); err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate: %w", err)
		}

		if rate.Rate, err = decimal.NewFromString(rateStr); err != nil {
			return nil, fmt.Errorf("failed to parse rate: %w", err)
		}

		rates = append(rates, &rate)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exchange rates: %w", err)
	}

	return rates, nil
}
