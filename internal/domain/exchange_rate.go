package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a historical ARS-per-USD quote.
// The repository returns the table sorted descending by date; conversions use
// the latest rate at or before the target date.
type ExchangeRate struct {
	Date time.Time
	Rate decimal.Decimal
}

// Validate ensures the quote adheres to domain rules
func (e *ExchangeRate) Validate() error {
	if e.Date.IsZero() {
		return errors.New("exchange rate date cannot be zero")
	}

	if e.Rate.LessThanOrEqual(decimal.Zero) {
		return errors.New("exchange rate must be positive")
	}

	return nil
}
