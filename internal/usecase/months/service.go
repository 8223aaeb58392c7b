package months

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// MonthService handles the calendar accounting period lifecycle
type MonthService struct {
	MonthRepo domain.MonthRepository
}

// NewMonthService creates a new MonthService instance
func NewMonthService(monthRepo domain.MonthRepository) *MonthService {
	return &MonthService{
		MonthRepo: monthRepo,
	}
}

// EnsureOpen returns the month record for (year, month), creating it if it
// does not exist yet. Creation is idempotent: calling it twice for the same
// pair yields the same record.
func (s *MonthService) EnsureOpen(ctx context.Context, year int, month time.Month) (*domain.Month, error) {
	existing, err := s.MonthRepo.GetByYearMonth(ctx, year, month)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up month %d-%02d: %w", year, int(month), err)
	}

	record := &domain.Month{
		ID:       uuid.New(),
		Year:     year,
		Month:    month,
		Status:   domain.MonthOpen,
		OpenDate: time.Now(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := s.MonthRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create month %d-%02d: %w", year, int(month), err)
	}

	return record, nil
}

// Close transitions a month from open to closed. The transition is one-way:
// re-closing an already-closed month is a conflict.
func (s *MonthService) Close(ctx context.Context, year int, month time.Month) (*domain.Month, error) {
	record, err := s.MonthRepo.GetByYearMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}

	if record.Status == domain.MonthClosed {
		return nil, fmt.Errorf("month %d-%02d is already closed: %w", year, int(month), domain.ErrConflictingState)
	}

	now := time.Now()
	record.Status = domain.MonthClosed
	record.CloseDate = &now

	if err := s.MonthRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to close month %d-%02d: %w", year, int(month), err)
	}

	return record, nil
}
