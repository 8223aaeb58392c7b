package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tramo is a contiguous time segment of a long-horizon projection with its own
// fixed rate/inflation/contribution assumptions. Segments of a fund are
// contiguous and non-overlapping; exactly one has no end date (the active one).
type Tramo struct {
	ID                        uuid.UUID
	FundID                    uuid.UUID
	StartDate                 time.Time
	EndDate                   *time.Time // Nil for the open-ended active segment
	ExpectedRateAnnualPct     decimal.Decimal
	AssumedInflationAnnualPct decimal.Decimal
	MonthlyContributionUSD    decimal.Decimal
	// OpeningCapitalUSD is authoritative only for the very first segment of a
	// fund; for later segments it is informational, since continuity is
	// enforced by carrying the prior segment's final computed capital forward.
	OpeningCapitalUSD decimal.Decimal
}

// Validate ensures the tramo adheres to domain rules
func (t *Tramo) Validate() error {
	if t.StartDate.IsZero() {
		return errors.New("tramo start date cannot be zero")
	}

	if t.EndDate != nil && !t.EndDate.After(t.StartDate) {
		return errors.New("tramo end date must be after its start date")
	}

	// Inflation of -100% or below makes the deflator collapse to zero
	if t.AssumedInflationAnnualPct.LessThanOrEqual(decimal.NewFromInt(-100)) {
		return errors.New("tramo assumed inflation must be greater than -100%")
	}

	if t.MonthlyContributionUSD.IsNegative() {
		return errors.New("tramo monthly contribution cannot be negative")
	}

	if t.OpeningCapitalUSD.IsNegative() {
		return errors.New("tramo opening capital cannot be negative")
	}

	return nil
}
