package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentKind represents the kind of capital-allocation vehicle
type InvestmentKind string

const (
	InvestmentKindFinancial  InvestmentKind = "FINANCIAL"
	InvestmentKindRealEstate InvestmentKind = "REAL_ESTATE"
)

// InvestmentEventKind represents the kind of a ledger entry
type InvestmentEventKind string

const (
	// EventContribution increases capital and result
	EventContribution InvestmentEventKind = "CONTRIBUTION"
	// EventWithdrawal decreases capital and result
	EventWithdrawal InvestmentEventKind = "WITHDRAWAL"
	// EventAdjustment changes result only, modelling unrealized gains/losses
	// without changing contributed principal
	EventAdjustment InvestmentEventKind = "ADJUSTMENT"
)

// Investment represents a capital-allocation vehicle with an objective and horizon.
// Capital and result are NEVER stored: they are always derived from the
// investment's InvestmentEvent stream.
type Investment struct {
	ID              uuid.UUID
	Name            string
	Kind            InvestmentKind
	TargetAmountUSD decimal.Decimal
	StartDate       time.Time
	FiscalStatus    FiscalStatus
}

// InvestmentEvent is an append-only ledger entry against an Investment
type InvestmentEvent struct {
	ID           uuid.UUID
	InvestmentID uuid.UUID
	Kind         InvestmentEventKind
	AmountUSD    decimal.Decimal
	Date         time.Time
	Note         string
}

// Validate ensures the investment adheres to domain rules
func (i *Investment) Validate() error {
	if i.Name == "" {
		return errors.New("investment name cannot be empty")
	}

	switch i.Kind {
	case InvestmentKindFinancial, InvestmentKindRealEstate:
	default:
		return errors.New("investment kind must be FINANCIAL or REAL_ESTATE")
	}

	if i.TargetAmountUSD.IsNegative() {
		return errors.New("investment target amount cannot be negative")
	}

	switch i.FiscalStatus {
	case FiscalDeclared, FiscalUndeclared:
	default:
		return errors.New("investment fiscal status must be DECLARED or UNDECLARED")
	}

	return nil
}

// Validate ensures the event adheres to domain rules
func (e *InvestmentEvent) Validate() error {
	if e.InvestmentID == uuid.Nil {
		return errors.New("investment event must reference an investment")
	}

	switch e.Kind {
	case EventContribution, EventWithdrawal:
		if e.AmountUSD.LessThanOrEqual(decimal.Zero) {
			return errors.New("contribution and withdrawal amounts must be positive")
		}
	case EventAdjustment:
		// Adjustments may be negative (unrealized losses)
	default:
		return errors.New("investment event kind must be CONTRIBUTION, WITHDRAWAL or ADJUSTMENT")
	}

	if e.Date.IsZero() {
		return errors.New("investment event date cannot be zero")
	}

	return nil
}
