package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LiabilityStatus represents the state of a liability's amortization
type LiabilityStatus string

const (
	LiabilityActive  LiabilityStatus = "ACTIVE"
	LiabilityPaidOff LiabilityStatus = "PAID_OFF" // Terminal
)

// Liability represents financing attached to exactly one Asset.
// RemainingBalanceUSD and InstallmentsRemaining are a cached projection of the
// payment history, not independent truth; both are monotonically non-increasing.
type Liability struct {
	ID                    uuid.UUID
	AssetID               uuid.UUID
	ConceptID             *uuid.UUID // Optional link used for automatic payment matching
	TotalAmountUSD        decimal.Decimal
	InstallmentsTotal     int
	InstallmentsRemaining int
	InstallmentAmountUSD  decimal.Decimal
	RemainingBalanceUSD   decimal.Decimal
}

// LiabilityPayment is an applied installment: an append-only audit record.
// BalanceAfter = max(0, BalanceBefore - AmountUSD).
type LiabilityPayment struct {
	ID                          uuid.UUID
	LiabilityID                 uuid.UUID
	SourceMovementID            uuid.UUID
	Date                        time.Time
	AmountUSD                   decimal.Decimal
	BalanceBefore               decimal.Decimal
	BalanceAfter                decimal.Decimal
	InstallmentsRemainingBefore int
	InstallmentsRemainingAfter  int
}

// Status derives the liability state from the remaining installment count
func (l *Liability) Status() LiabilityStatus {
	if l.InstallmentsRemaining <= 0 {
		return LiabilityPaidOff
	}
	return LiabilityActive
}

// Validate ensures the liability adheres to domain rules
func (l *Liability) Validate() error {
	if l.AssetID == uuid.Nil {
		return errors.New("liability must reference an asset")
	}

	if l.TotalAmountUSD.LessThanOrEqual(decimal.Zero) {
		return errors.New("liability total amount must be positive")
	}

	if l.InstallmentsTotal <= 0 {
		return errors.New("liability installments total must be positive")
	}

	if l.InstallmentsRemaining < 0 || l.InstallmentsRemaining > l.InstallmentsTotal {
		return errors.New("liability installments remaining must be between 0 and installments total")
	}

	if l.InstallmentAmountUSD.LessThanOrEqual(decimal.Zero) {
		return errors.New("liability installment amount must be positive")
	}

	if l.RemainingBalanceUSD.IsNegative() {
		return errors.New("liability remaining balance cannot be negative")
	}

	return nil
}
