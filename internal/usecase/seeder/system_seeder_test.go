package seeder

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// MockConceptRepository is a mock implementation of ConceptRepository for testing
type MockConceptRepository struct {
	mock.Mock
}

func (m *MockConceptRepository) Create(ctx context.Context, c *domain.Concept) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConceptRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Concept, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Concept), args.Error(1)
}

func (m *MockConceptRepository) GetByNameAndKind(ctx context.Context, name string, kind domain.MovementKind) (*domain.Concept, error) {
	args := m.Called(ctx, name, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Concept), args.Error(1)
}

func (m *MockConceptRepository) List(ctx context.Context) ([]*domain.Concept, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Concept), args.Error(1)
}

func TestSeed_CreatesMissingConcepts(t *testing.T) {
	ctx := context.Background()

	repo := new(MockConceptRepository)
	repo.On("GetByID", ctx, mock.Anything).Return(nil, domain.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Concept")).Return(nil)

	err := NewSystemSeeder(repo).Seed(ctx)

	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Create", 3)
}

func TestSeed_SkipsExistingConcepts(t *testing.T) {
	ctx := context.Background()

	repo := new(MockConceptRepository)
	repo.On("GetByID", ctx, SYS_SALARY).Return(&domain.Concept{
		ID:     SYS_SALARY,
		Name:   "Sueldo",
		Kind:   domain.MovementIncome,
		Nature: domain.NatureFixed,
	}, nil)
	repo.On("GetByID", ctx, SYS_RENT).Return(nil, domain.ErrNotFound)
	repo.On("GetByID", ctx, SYS_CAR_INSTALLMENT).Return(nil, domain.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Concept")).Return(nil)

	err := NewSystemSeeder(repo).Seed(ctx)

	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Create", 2)
}

func TestSeed_RepositoryFailurePropagates(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("connection refused")

	repo := new(MockConceptRepository)
	repo.On("GetByID", ctx, mock.Anything).Return(nil, dbErr)

	err := NewSystemSeeder(repo).Seed(ctx)

	assert.ErrorIs(t, err, dbErr)
}
