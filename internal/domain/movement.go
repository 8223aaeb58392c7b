package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementKind represents the direction of a monthly cash-flow entry
type MovementKind string

const (
	MovementIncome  MovementKind = "INCOME"
	MovementExpense MovementKind = "EXPENSE"
)

// MovementStatus represents whether a movement has been settled
type MovementStatus string

const (
	MovementPaid    MovementStatus = "PAID"
	MovementPending MovementStatus = "PENDING"
)

// Currency identifies one of the two supported currencies
type Currency string

const (
	CurrencyARS Currency = "ARS"
	CurrencyUSD Currency = "USD"
)

// ConceptNature classifies how regularly a concept recurs
type ConceptNature string

const (
	NatureFixed         ConceptNature = "FIXED"
	NatureVariable      ConceptNature = "VARIABLE"
	NatureExtraordinary ConceptNature = "EXTRAORDINARY"
)

// MonthStatus represents the lifecycle state of an accounting period
type MonthStatus string

const (
	MonthOpen   MonthStatus = "OPEN"
	MonthClosed MonthStatus = "CLOSED" // Terminal
)

// Movement is a dated income/expense entry for a calendar month.
// AmountUSD is always non-negative; direction is encoded by Kind, not sign.
type Movement struct {
	ID                  uuid.UUID
	Kind                MovementKind
	AmountUSD           decimal.Decimal
	OriginalCurrency    Currency
	ExchangeRateApplied decimal.Decimal // ARS per USD at conversion time; 1 for USD entries
	Date                time.Time
	Status              MovementStatus
	ConceptID           uuid.UUID
	MonthID             uuid.UUID
}

// Concept is a reusable label for movements (e.g. "Rent", "Salary").
// Name is unique per kind.
type Concept struct {
	ID     uuid.UUID
	Name   string
	Kind   MovementKind
	Nature ConceptNature
}

// Month is a calendar accounting period. Once closed, no new movements may
// target it.
type Month struct {
	ID        uuid.UUID
	Year      int
	Month     time.Month
	Status    MonthStatus
	OpenDate  time.Time
	CloseDate *time.Time // Nil while the month is open
}

// Validate ensures the movement adheres to domain rules
func (m *Movement) Validate() error {
	switch m.Kind {
	case MovementIncome, MovementExpense:
	default:
		return errors.New("movement kind must be INCOME or EXPENSE")
	}

	if m.AmountUSD.IsNegative() {
		return errors.New("movement amount cannot be negative")
	}

	switch m.OriginalCurrency {
	case CurrencyARS, CurrencyUSD:
	default:
		return errors.New("movement currency must be ARS or USD")
	}

	switch m.Status {
	case MovementPaid, MovementPending:
	default:
		return errors.New("movement status must be PAID or PENDING")
	}

	if m.ConceptID == uuid.Nil {
		return errors.New("movement must reference a concept")
	}

	if m.MonthID == uuid.Nil {
		return errors.New("movement must reference a month")
	}

	return nil
}

// Validate ensures the concept adheres to domain rules
func (c *Concept) Validate() error {
	if c.Name == "" {
		return errors.New("concept name cannot be empty")
	}

	switch c.Kind {
	case MovementIncome, MovementExpense:
	default:
		return errors.New("concept kind must be INCOME or EXPENSE")
	}

	switch c.Nature {
	case NatureFixed, NatureVariable, NatureExtraordinary:
	default:
		return errors.New("concept nature must be FIXED, VARIABLE or EXTRAORDINARY")
	}

	return nil
}

// Validate ensures the month adheres to domain rules
func (m *Month) Validate() error {
	if m.Year < 1900 || m.Year > 3000 {
		return errors.New("month year out of range")
	}

	if m.Month < time.January || m.Month > time.December {
		return errors.New("month must be between 1 and 12")
	}

	switch m.Status {
	case MonthOpen, MonthClosed:
	default:
		return errors.New("month status must be OPEN or CLOSED")
	}

	if m.Status == MonthClosed && m.CloseDate == nil {
		return errors.New("closed month must have a close date")
	}

	return nil
}
