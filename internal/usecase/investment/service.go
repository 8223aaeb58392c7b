package investment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nmorales/patrimonio-backend/internal/domain"
	"github.com/nmorales/patrimonio-backend/internal/usecase/ledger"
)

// InvestmentWithState is an investment resolved with its derived position
type InvestmentWithState struct {
	Investment *domain.Investment
	State      ledger.InvestmentState
}

// InvestmentService handles the investment lifecycle and its event ledger
type InvestmentService struct {
	InvestmentRepo domain.InvestmentRepository
}

// NewInvestmentService creates a new InvestmentService instance
func NewInvestmentService(investmentRepo domain.InvestmentRepository) *InvestmentService {
	return &InvestmentService{
		InvestmentRepo: investmentRepo,
	}
}

// CreateInvestment validates and persists a new investment. Capital and
// result start at zero implicitly: they only ever exist as a fold over the
// event stream.
func (s *InvestmentService) CreateInvestment(ctx context.Context, name string, kind domain.InvestmentKind, targetUSD decimal.Decimal, startDate time.Time, fiscal domain.FiscalStatus) (*domain.Investment, error) {
	inv := &domain.Investment{
		ID:              uuid.New(),
		Name:            name,
		Kind:            kind,
		TargetAmountUSD: targetUSD,
		StartDate:       startDate,
		FiscalStatus:    fiscal,
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if err := s.InvestmentRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create investment: %w", err)
	}

	return inv, nil
}

// UpdateInvestment changes an investment's descriptive fields. The event
// ledger is untouched: history is never rewritten through an update.
func (s *InvestmentService) UpdateInvestment(ctx context.Context, id uuid.UUID, name string, kind domain.InvestmentKind, targetUSD decimal.Decimal, startDate time.Time, fiscal domain.FiscalStatus) (*domain.Investment, error) {
	inv, err := s.InvestmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	inv.Name = name
	inv.Kind = kind
	inv.TargetAmountUSD = targetUSD
	inv.StartDate = startDate
	inv.FiscalStatus = fiscal

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if err := s.InvestmentRepo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update investment: %w", err)
	}

	return inv, nil
}

// DeleteInvestment removes an investment and cascades to its events
func (s *InvestmentService) DeleteInvestment(ctx context.Context, id uuid.UUID) error {
	if _, err := s.InvestmentRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.InvestmentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
	}

	return nil
}

// AddEvent appends a ledger entry to an investment's event stream
func (s *InvestmentService) AddEvent(ctx context.Context, investmentID uuid.UUID, kind domain.InvestmentEventKind, amountUSD decimal.Decimal, eventDate time.Time, note string) (*domain.InvestmentEvent, error) {
	if _, err := s.InvestmentRepo.GetByID(ctx, investmentID); err != nil {
		return nil, err
	}

	event := &domain.InvestmentEvent{
		ID:           uuid.New(),
		InvestmentID: investmentID,
		Kind:         kind,
		AmountUSD:    amountUSD,
		Date:         eventDate,
		Note:         note,
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.InvestmentRepo.AddEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to add investment event: %w", err)
	}

	return event, nil
}

// GetState derives an investment's current position from its event stream
func (s *InvestmentService) GetState(ctx context.Context, investmentID uuid.UUID) (*InvestmentWithState, error) {
	inv, err := s.InvestmentRepo.GetByID(ctx, investmentID)
	if err != nil {
		return nil, err
	}

	events, err := s.InvestmentRepo.ListEvents(ctx, investmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investment events: %w", err)
	}

	return &InvestmentWithState{
		Investment: inv,
		State:      ledger.DeriveState(events),
	}, nil
}

// ListInvestments returns every investment with its derived state resolved
func (s *InvestmentService) ListInvestments(ctx context.Context) ([]*InvestmentWithState, error) {
	investments, err := s.InvestmentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}

	result := make([]*InvestmentWithState, 0, len(investments))
	for _, inv := range investments {
		events, err := s.InvestmentRepo.ListEvents(ctx, inv.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list events for investment %s: %w", inv.ID, err)
		}

		result = append(result, &InvestmentWithState{
			Investment: inv,
			State:      ledger.DeriveState(events),
		})
	}

	return result, nil
}
