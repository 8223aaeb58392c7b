package projection

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// MockTramoRepository is a mock implementation of TramoRepository for testing
type MockTramoRepository struct {
	mock.Mock
}

func (m *MockTramoRepository) Add(ctx context.Context, t *domain.Tramo) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTramoRepository) ListByFund(ctx context.Context, fundID uuid.UUID) ([]*domain.Tramo, error) {
	args := m.Called(ctx, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Tramo), args.Error(1)
}

func TestStandardScenarios_ThreePresets(t *testing.T) {
	svc := NewProjectionService(new(MockTramoRepository))

	scenarios := svc.StandardScenarios(decimal.NewFromInt(10000), decimal.NewFromInt(4), 10)

	require.Len(t, scenarios, 3)
	assert.Equal(t, "conservative", scenarios[0].Name)
	assert.Equal(t, "base", scenarios[1].Name)
	assert.Equal(t, "optimistic", scenarios[2].Name)
	for _, sc := range scenarios {
		assert.Len(t, sc.Series, 11)
	}
	// Higher rate must dominate at the horizon
	last := len(scenarios[0].Series) - 1
	assert.True(t, scenarios[2].Series[last].Nominal.GreaterThan(scenarios[0].Series[last].Nominal))
}

func TestProjectFund_NoSegmentsIsNotFound(t *testing.T) {
	ctx := context.Background()
	fundID := uuid.New()

	repo := new(MockTramoRepository)
	repo.On("ListByFund", ctx, fundID).Return([]*domain.Tramo{}, nil)

	svc := NewProjectionService(repo)
	_, err := svc.ProjectFund(ctx, fundID, date(2020, 1, 1))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddTramo_RejectsTotalDeflationAssumption(t *testing.T) {
	ctx := context.Background()

	repo := new(MockTramoRepository)
	svc := NewProjectionService(repo)

	err := svc.AddTramo(ctx, tramo(date(2020, 1, 1), nil, 8, -100, 0, 1000))

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestAddTramo_RejectsSecondOpenEndedSegment(t *testing.T) {
	ctx := context.Background()
	fundID := uuid.New()
	existing := tramo(date(2020, 1, 1), nil, 8, 4, 0, 1000)
	existing.FundID = fundID

	repo := new(MockTramoRepository)
	repo.On("ListByFund", ctx, fundID).Return([]*domain.Tramo{existing}, nil)

	svc := NewProjectionService(repo)
	incoming := tramo(date(2023, 1, 1), nil, 5, 3, 0, 0)
	incoming.FundID = fundID

	err := svc.AddTramo(ctx, incoming)

	assert.ErrorIs(t, err, domain.ErrConflictingState)
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestAddTramo_AppendsAfterClosedSegment(t *testing.T) {
	ctx := context.Background()
	fundID := uuid.New()
	existing := tramo(date(2020, 1, 1), datePtr(2023, 1, 1), 8, 4, 0, 1000)
	existing.FundID = fundID

	repo := new(MockTramoRepository)
	repo.On("ListByFund", ctx, fundID).Return([]*domain.Tramo{existing}, nil)
	repo.On("Add", ctx, mock.AnythingOfType("*domain.Tramo")).Return(nil)

	svc := NewProjectionService(repo)
	incoming := tramo(date(2023, 1, 1), nil, 5, 3, 100, 0)
	incoming.FundID = fundID

	err := svc.AddTramo(ctx, incoming)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
