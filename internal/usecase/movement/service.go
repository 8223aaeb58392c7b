package movement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nmorales/patrimonio-backend/internal/domain"
	"github.com/nmorales/patrimonio-backend/internal/usecase/amortization"
	"github.com/nmorales/patrimonio-backend/internal/usecase/months"
	"github.com/nmorales/patrimonio-backend/internal/usecase/rates"
)

// PostMovementInput carries an already-normalized movement entry. The
// transport layer is responsible for running every raw amount through numfmt
// before it gets here.
type PostMovementInput struct {
	Kind      domain.MovementKind
	Amount    decimal.Decimal
	Currency  domain.Currency
	Date      time.Time
	Status    domain.MovementStatus
	ConceptID uuid.UUID
}

// PostedMovement is the outcome of posting a movement. Payment is non-nil
// only when the movement's concept links a liability and the amount matched
// an installment.
type PostedMovement struct {
	Movement *domain.Movement
	Payment  *domain.LiabilityPayment
}

// MonthlySummary aggregates one accounting period's cash flow
type MonthlySummary struct {
	Year       int
	Month      time.Month
	Status     domain.MonthStatus
	IncomeUSD  decimal.Decimal
	ExpenseUSD decimal.Decimal
	NetUSD     decimal.Decimal
	Movements  []*domain.Movement
}

// MovementService posts monthly income/expense entries and reports per-month
// summaries
type MovementService struct {
	MovementRepo        domain.MovementRepository
	ConceptRepo         domain.ConceptRepository
	MonthService        *months.MonthService
	RateService         *rates.RateService
	AmortizationService *amortization.AmortizationService
}

// NewMovementService creates a new MovementService instance
func NewMovementService(
	movementRepo domain.MovementRepository,
	conceptRepo domain.ConceptRepository,
	monthService *months.MonthService,
	rateService *rates.RateService,
	amortizationService *amortization.AmortizationService,
) *MovementService {
	return &MovementService{
		MovementRepo:        movementRepo,
		ConceptRepo:         conceptRepo,
		MonthService:        monthService,
		RateService:         rateService,
		AmortizationService: amortizationService,
	}
}

// PostMovement records one dated income/expense entry.
//
// The movement's month is resolved from its date and opened on demand; a
// closed month refuses new entries. ARS amounts are converted with the rate
// valid at the movement date, and the applied rate is recorded on the entry.
// After persisting, the movement is offered to the amortization tracker: a
// match appends a liability payment, a non-match leaves the movement standing
// alone.
func (s *MovementService) PostMovement(ctx context.Context, input PostMovementInput) (*PostedMovement, error) {
	if input.Amount.IsNegative() {
		return nil, fmt.Errorf("movement amount cannot be negative: direction is encoded by kind")
	}

	concept, err := s.ConceptRepo.GetByID(ctx, input.ConceptID)
	if err != nil {
		return nil, err
	}
	if concept.Kind != input.Kind {
		return nil, fmt.Errorf("concept %q is a %s concept, movement is %s: %w",
			concept.Name, concept.Kind, input.Kind, domain.ErrConflictingState)
	}

	month, err := s.MonthService.EnsureOpen(ctx, input.Date.Year(), input.Date.Month())
	if err != nil {
		return nil, err
	}
	if month.Status == domain.MonthClosed {
		return nil, fmt.Errorf("month %d-%02d is closed: %w", month.Year, int(month.Month), domain.ErrConflictingState)
	}

	amountUSD := input.Amount
	rateApplied := decimal.NewFromInt(1)
	if input.Currency == domain.CurrencyARS {
		rateApplied, err = s.RateService.RateAt(ctx, input.Date)
		if err != nil {
			return nil, err
		}
		amountUSD, err = s.RateService.ToUSD(ctx, input.Amount, input.Date)
		if err != nil {
			return nil, err
		}
	}

	entry := &domain.Movement{
		ID:                  uuid.New(),
		Kind:                input.Kind,
		AmountUSD:           amountUSD,
		OriginalCurrency:    input.Currency,
		ExchangeRateApplied: rateApplied,
		Date:                input.Date,
		Status:              input.Status,
		ConceptID:           input.ConceptID,
		MonthID:             month.ID,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.MovementRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create movement: %w", err)
	}

	posted := &PostedMovement{Movement: entry}

	// Expenses under a liability-linked concept may settle an installment.
	// A nil payment is a deliberate non-match, not an error.
	if input.Kind == domain.MovementExpense {
		payment, err := s.AmortizationService.ApplyPayment(ctx, input.ConceptID, amountUSD, entry.ID, input.Date)
		if err != nil {
			return nil, err
		}
		posted.Payment = payment
	}

	return posted, nil
}

// Summary aggregates a month's movements. An unknown (year, month) yields an
// empty well-formed summary, never an error: "no data yet" is not a failure
// on the read side.
func (s *MovementService) Summary(ctx context.Context, year int, month time.Month) (*MonthlySummary, error) {
	summary := &MonthlySummary{
		Year:       year,
		Month:      month,
		Status:     domain.MonthOpen,
		IncomeUSD:  decimal.Zero,
		ExpenseUSD: decimal.Zero,
		NetUSD:     decimal.Zero,
		Movements:  []*domain.Movement{},
	}

	record, err := s.MonthService.MonthRepo.GetByYearMonth(ctx, year, month)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return summary, nil
		}
		return nil, fmt.Errorf("failed to look up month %d-%02d: %w", year, int(month), err)
	}
	summary.Status = record.Status

	movements, err := s.MovementRepo.ListByMonth(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	for _, m := range movements {
		// Bad historical rows degrade the summary, they never crash it
		if m == nil || m.AmountUSD.IsNegative() {
			continue
		}

		summary.Movements = append(summary.Movements, m)
		switch m.Kind {
		case domain.MovementIncome:
			summary.IncomeUSD = summary.IncomeUSD.Add(m.AmountUSD)
		case domain.MovementExpense:
			summary.ExpenseUSD = summary.ExpenseUSD.Add(m.AmountUSD)
		}
	}

	summary.NetUSD = summary.IncomeUSD.Sub(summary.ExpenseUSD)
	return summary, nil
}

// CreateConcept registers a reusable movement label. Names are unique per
// kind.
func (s *MovementService) CreateConcept(ctx context.Context, name string, kind domain.MovementKind, nature domain.ConceptNature) (*domain.Concept, error) {
	existing, err := s.ConceptRepo.GetByNameAndKind(ctx, name, kind)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check concept uniqueness: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("concept %q already exists for kind %s: %w", name, kind, domain.ErrConflictingState)
	}

	concept := &domain.Concept{
		ID:     uuid.New(),
		Name:   name,
		Kind:   kind,
		Nature: nature,
	}

	if err := concept.Validate(); err != nil {
		return nil, err
	}

	if err := s.ConceptRepo.Create(ctx, concept); err != nil {
		return nil, fmt.Errorf("failed to create concept: %w", err)
	}

	return concept, nil
}

// ListConcepts returns every registered concept
func (s *MovementService) ListConcepts(ctx context.Context) ([]*domain.Concept, error) {
	concepts, err := s.ConceptRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list concepts: %w", err)
	}
	return concepts, nil
}
