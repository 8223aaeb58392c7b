package months

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// MockMonthRepository is a mock implementation of MonthRepository for testing
type MockMonthRepository struct {
	mock.Mock
}

func (m *MockMonthRepository) Create(ctx context.Context, record *domain.Month) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockMonthRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Month, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Month), args.Error(1)
}

func (m *MockMonthRepository) GetByYearMonth(ctx context.Context, year int, month time.Month) (*domain.Month, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Month), args.Error(1)
}

func (m *MockMonthRepository) Update(ctx context.Context, record *domain.Month) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func openMonth(year int, month time.Month) *domain.Month {
	return &domain.Month{
		ID:       uuid.New(),
		Year:     year,
		Month:    month,
		Status:   domain.MonthOpen,
		OpenDate: time.Now(),
	}
}

func TestEnsureOpen_CreatesWhenMissing(t *testing.T) {
	ctx := context.Background()

	repo := new(MockMonthRepository)
	repo.On("GetByYearMonth", ctx, 2026, time.August).Return(nil, domain.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Month")).Return(nil)

	svc := NewMonthService(repo)
	record, err := svc.EnsureOpen(ctx, 2026, time.August)

	require.NoError(t, err)
	assert.Equal(t, domain.MonthOpen, record.Status)
	assert.Equal(t, 2026, record.Year)
	repo.AssertExpectations(t)
}

func TestEnsureOpen_IdempotentByYearMonth(t *testing.T) {
	ctx := context.Background()
	existing := openMonth(2026, time.August)

	repo := new(MockMonthRepository)
	repo.On("GetByYearMonth", ctx, 2026, time.August).Return(existing, nil)

	svc := NewMonthService(repo)

	first, err := svc.EnsureOpen(ctx, 2026, time.August)
	require.NoError(t, err)
	second, err := svc.EnsureOpen(ctx, 2026, time.August)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClose_OpenMonthCloses(t *testing.T) {
	ctx := context.Background()
	existing := openMonth(2026, time.July)

	repo := new(MockMonthRepository)
	repo.On("GetByYearMonth", ctx, 2026, time.July).Return(existing, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Month")).Return(nil)

	svc := NewMonthService(repo)
	record, err := svc.Close(ctx, 2026, time.July)

	require.NoError(t, err)
	assert.Equal(t, domain.MonthClosed, record.Status)
	require.NotNil(t, record.CloseDate)
	repo.AssertExpectations(t)
}

func TestClose_ReCloseConflicts(t *testing.T) {
	ctx := context.Background()
	closeDate := time.Now()
	closed := &domain.Month{
		ID:        uuid.New(),
		Year:      2026,
		Month:     time.June,
		Status:    domain.MonthClosed,
		OpenDate:  time.Now().AddDate(0, -1, 0),
		CloseDate: &closeDate,
	}

	repo := new(MockMonthRepository)
	repo.On("GetByYearMonth", ctx, 2026, time.June).Return(closed, nil)

	svc := NewMonthService(repo)
	_, err := svc.Close(ctx, 2026, time.June)

	assert.ErrorIs(t, err, domain.ErrConflictingState)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestClose_UnknownMonthPropagatesNotFound(t *testing.T) {
	ctx := context.Background()

	repo := new(MockMonthRepository)
	repo.On("GetByYearMonth", ctx, 2026, time.May).Return(nil, domain.ErrNotFound)

	svc := NewMonthService(repo)
	_, err := svc.Close(ctx, 2026, time.May)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
