package projection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// Standard annual rate presets for the dashboard's scenario view, in percent
var (
	ConservativeRatePct = decimal.NewFromInt(4)
	BaseRatePct         = decimal.NewFromInt(8)
	OptimisticRatePct   = decimal.NewFromInt(12)
)

// Scenario is one named fixed-rate projection
type Scenario struct {
	Name          string
	AnnualRatePct decimal.Decimal
	Series        []Point
}

// ProjectionService produces projected capital series for funds and scenarios
type ProjectionService struct {
	TramoRepo domain.TramoRepository
}

// NewProjectionService creates a new ProjectionService instance
func NewProjectionService(tramoRepo domain.TramoRepository) *ProjectionService {
	return &ProjectionService{
		TramoRepo: tramoRepo,
	}
}

// StandardScenarios projects an opening capital under the conservative, base
// and optimistic presets with a shared inflation assumption
func (s *ProjectionService) StandardScenarios(opening, annualInflationPct decimal.Decimal, horizonYears int) []Scenario {
	presets := []struct {
		name string
		rate decimal.Decimal
	}{
		{"conservative", ConservativeRatePct},
		{"base", BaseRatePct},
		{"optimistic", OptimisticRatePct},
	}

	scenarios := make([]Scenario, 0, len(presets))
	for _, p := range presets {
		scenarios = append(scenarios, Scenario{
			Name:          p.name,
			AnnualRatePct: p.rate,
			Series:        ProjectScenario(opening, p.rate, annualInflationPct, horizonYears),
		})
	}

	return scenarios
}

// ProjectFund loads a fund's segments and projects them as one continuous
// series from the fund start date
func (s *ProjectionService) ProjectFund(ctx context.Context, fundID uuid.UUID, fundStart time.Time) ([]Point, error) {
	tramos, err := s.TramoRepo.ListByFund(ctx, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fund segments: %w", err)
	}

	if len(tramos) == 0 {
		return nil, fmt.Errorf("fund %s has no segments: %w", fundID, domain.ErrNotFound)
	}

	return ProjectTramos(fundStart, tramos)
}

// AddTramo validates and appends a projection segment to a fund.
// The new segment must start where coverage currently ends; an existing
// open-ended segment must be closed first.
func (s *ProjectionService) AddTramo(ctx context.Context, t *domain.Tramo) error {
	if err := t.Validate(); err != nil {
		return err
	}

	existing, err := s.TramoRepo.ListByFund(ctx, t.FundID)
	if err != nil {
		return fmt.Errorf("failed to load fund segments: %w", err)
	}

	if len(existing) > 0 {
		last := existing[len(existing)-1]
		if last.EndDate == nil {
			return fmt.Errorf("fund already has an open-ended segment: %w", domain.ErrConflictingState)
		}
		if t.StartDate.Before(*last.EndDate) {
			return fmt.Errorf("segment overlaps the previous one: %w", domain.ErrConflictingState)
		}
	}

	if err := s.TramoRepo.Add(ctx, t); err != nil {
		return fmt.Errorf("failed to add segment: %w", err)
	}

	return nil
}
