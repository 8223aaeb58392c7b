package amortization

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// matchTolerance is the accepted drift between a posted payment and the
// liability's fixed installment amount. It absorbs rounding and exchange-rate
// noise without blindly accepting unrelated large payments under the same
// concept.
var matchTolerance = decimal.RequireFromString("0.10")

// AmortizationService applies concept-matched payments against liabilities
type AmortizationService struct {
	LiabilityRepo domain.LiabilityRepository
}

// NewAmortizationService creates a new AmortizationService instance
func NewAmortizationService(liabilityRepo domain.LiabilityRepository) *AmortizationService {
	return &AmortizationService{
		LiabilityRepo: liabilityRepo,
	}
}

// ApplyPayment looks up the liability linked to the movement's concept and
// applies the amount as one installment when it matches.
//
// A nil, nil return is a deliberate non-match, not an error: no liability is
// linked to the concept, the liability is already paid off, or the amount
// falls outside the tolerance band around the installment amount. In all of
// those cases the movement stands alone and no state changes.
//
// On a match the liability's cached balance and remaining count are floored at
// zero, and one immutable LiabilityPayment audit record is appended.
func (s *AmortizationService) ApplyPayment(ctx context.Context, conceptID uuid.UUID, amountUSD decimal.Decimal, movementID uuid.UUID, date time.Time) (*domain.LiabilityPayment, error) {
	liability, err := s.LiabilityRepo.GetByConceptID(ctx, conceptID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Concept has no liability linked: not a payment candidate
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up liability by concept: %w", err)
	}

	// A settled liability accepts no further automatic payments
	if liability.Status() == domain.LiabilityPaidOff {
		return nil, nil
	}

	if !withinTolerance(amountUSD, liability.InstallmentAmountUSD) {
		return nil, nil
	}

	balanceBefore := liability.RemainingBalanceUSD
	balanceAfter := decimal.Max(decimal.Zero, balanceBefore.Sub(amountUSD))

	installmentsBefore := liability.InstallmentsRemaining
	installmentsAfter := installmentsBefore - 1
	if installmentsAfter < 0 {
		installmentsAfter = 0
	}

	payment := &domain.LiabilityPayment{
		ID:                          uuid.New(),
		LiabilityID:                 liability.ID,
		SourceMovementID:            movementID,
		Date:                        date,
		AmountUSD:                   amountUSD,
		BalanceBefore:               balanceBefore,
		BalanceAfter:                balanceAfter,
		InstallmentsRemainingBefore: installmentsBefore,
		InstallmentsRemainingAfter:  installmentsAfter,
	}

	if err := s.LiabilityRepo.AddPayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record liability payment: %w", err)
	}

	// The liability fields are a cached projection of the payment history
	liability.RemainingBalanceUSD = balanceAfter
	liability.InstallmentsRemaining = installmentsAfter
	if err := s.LiabilityRepo.UpdateCachedFields(ctx, liability); err != nil {
		return nil, fmt.Errorf("failed to update liability cached fields: %w", err)
	}

	return payment, nil
}

// withinTolerance reports whether the amount is within 10% of the installment,
// inclusive at both bounds
func withinTolerance(amount, installment decimal.Decimal) bool {
	if installment.LessThanOrEqual(decimal.Zero) {
		return false
	}

	band := installment.Mul(matchTolerance)
	lower := installment.Sub(band)
	upper := installment.Add(band)

	return amount.GreaterThanOrEqual(lower) && amount.LessThanOrEqual(upper)
}
