package movement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nmorales/patrimonio-backend/internal/domain"
	"github.com/nmorales/patrimonio-backend/internal/usecase/amortization"
	"github.com/nmorales/patrimonio-backend/internal/usecase/months"
	"github.com/nmorales/patrimonio-backend/internal/usecase/rates"
)

// MockMovementRepository is a mock implementation of MovementRepository for testing
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Create(ctx context.Context, record *domain.Movement) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockMovementRepository) ListByMonth(ctx context.Context, monthID uuid.UUID) ([]*domain.Movement, error) {
	args := m.Called(ctx, monthID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Movement), args.Error(1)
}

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

// MockExchangeRateRepository is a mock implementation of ExchangeRateRepository for testing
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) Add(ctx context.Context, r *domain.ExchangeRate) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) ListDescending(ctx context.Context) ([]*domain.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ExchangeRate), args.Error(1)
}

// MockLiabilityRepository is a mock implementation of LiabilityRepository for testing
type MockLiabilityRepository struct {
	mock.Mock
}

func (m *MockLiabilityRepository) Create(ctx context.Context, l *domain.Liability) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLiabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Liability, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Liability), args.Error(1)
}

func (m *MockLiabilityRepository) GetByAssetID(ctx context.Context, assetID uuid.UUID) (*domain.Liability, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Liability), args.Error(1)
}

func (m *MockLiabilityRepository) GetByConceptID(ctx context.Context, conceptID uuid.UUID) (*domain.Liability, error) {
	args := m.Called(ctx, conceptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Liability), args.Error(1)
}

func (m *MockLiabilityRepository) UpdateCachedFields(ctx context.Context, l *domain.Liability) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLiabilityRepository) AddPayment(ctx context.Context, p *domain.LiabilityPayment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockLiabilityRepository) ListPayments(ctx context.Context, liabilityID uuid.UUID) ([]*domain.LiabilityPayment, error) {
	args := m.Called(ctx, liabilityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LiabilityPayment), args.Error(1)
}

type fixture struct {
	movementRepo  *MockMovementRepository
	conceptRepo   *MockConceptRepository
	monthRepo     *MockMonthRepository
	rateRepo      *MockExchangeRateRepository
	liabilityRepo *MockLiabilityRepository
	svc           *MovementService
}

func newFixture() *fixture {
	f := &fixture{
		movementRepo:  new(MockMovementRepository),
		conceptRepo:   new(MockConceptRepository),
		monthRepo:     new(MockMonthRepository),
		rateRepo:      new(MockExchangeRateRepository),
		liabilityRepo: new(MockLiabilityRepository),
	}
	f.svc = NewMovementService(
		f.movementRepo,
		f.conceptRepo,
		months.NewMonthService(f.monthRepo),
		rates.NewRateService(f.rateRepo, decimal.NewFromInt(1000)),
		amortization.NewAmortizationService(f.liabilityRepo),
	)
	return f
}

func expenseConcept(name string) *domain.Concept {
	return &domain.Concept{
		ID:     uuid.New(),
		Name:   name,
		Kind:   domain.MovementExpense,
		Nature: domain.NatureFixed,
	}
}

func TestPostMovement_ClosedMonthRefused(t *testing.T) {
	ctx := context.Background()
	concept := expenseConcept("Rent")
	movementDate := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	closeDate := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)

	f := newFixture()
	f.conceptRepo.On("GetByID", ctx, concept.ID).Return(concept, nil)
	f.monthRepo.On("GetByYearMonth", ctx, 2026, time.June).Return(&domain.Month{
		ID:        uuid.New(),
		Year:      2026,
		Month:     time.June,
		Status:    domain.MonthClosed,
		OpenDate:  time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		CloseDate: &closeDate,
	}, nil)

	_, err := f.svc.PostMovement(ctx, PostMovementInput{
		Kind:      domain.MovementExpense,
		Amount:    decimal.NewFromInt(500),
		Currency:  domain.CurrencyUSD,
		Date:      movementDate,
		Status:    domain.MovementPaid,
		ConceptID: concept.ID,
	})

	assert.ErrorIs(t, err, domain.ErrConflictingState)
	f.movementRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPostMovement_UnknownConceptPropagatesNotFound(t *testing.T) {
	ctx := context.Background()
	conceptID := uuid.New()

	f := newFixture()
	f.conceptRepo.On("GetByID", ctx, conceptID).Return(nil, domain.ErrNotFound)

	_, err := f.svc.PostMovement(ctx, PostMovementInput{
		Kind:      domain.MovementExpense,
		Amount:    decimal.NewFromInt(500),
		Currency:  domain.CurrencyUSD,
		Date:      time.Now(),
		Status:    domain.MovementPaid,
		ConceptID: conceptID,
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostMovement_ARSConvertedWithRateAtDate(t *testing.T) {
	ctx := context.Background()
	concept := expenseConcept("Groceries")
	movementDate := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)

	f := newFixture()
	f.conceptRepo.On("GetByID", ctx, concept.ID).Return(concept, nil)
	f.monthRepo.On("GetByYearMonth", ctx, 2026, time.August).Return(nil, domain.ErrNotFound)
	f.monthRepo.On("Create", ctx, mock.AnythingOfType("*domain.Month")).Return(nil)
	f.rateRepo.On("ListDescending", ctx).Return([]*domain.ExchangeRate{
		{Date: time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC), Rate: decimal.NewFromInt(1200)},
		{Date: time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC), Rate: decimal.NewFromInt(1100)},
	}, nil)
	f.liabilityRepo.On("GetByConceptID", ctx, concept.ID).Return(nil, domain.ErrNotFound)

	var created *domain.Movement
	f.movementRepo.On("Create", ctx, mock.AnythingOfType("*domain.Movement")).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.Movement)
	}).Return(nil)

	posted, err := f.svc.PostMovement(ctx, PostMovementInput{
		Kind:      domain.MovementExpense,
		Amount:    decimal.NewFromInt(120000),
		Currency:  domain.CurrencyARS,
		Date:      movementDate,
		Status:    domain.MovementPaid,
		ConceptID: concept.ID,
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, created.AmountUSD.Equal(decimal.NewFromInt(100)), "120000 ARS at 1200 should be 100 USD, got %s", created.AmountUSD)
	assert.True(t, created.ExchangeRateApplied.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, domain.CurrencyARS, created.OriginalCurrency)
	assert.Nil(t, posted.Payment)
}

func TestPostMovement_MatchingExpenseSettlesInstallment(t *testing.T) {
	ctx := context.Background()
	concept := expenseConcept("Car Installment")
	movementDate := time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC)

	liability := &domain.Liability{
		ID:                    uuid.New(),
		AssetID:               uuid.New(),
		ConceptID:             &concept.ID,
		TotalAmountUSD:        decimal.NewFromInt(15000),
		InstallmentsTotal:     36,
		InstallmentsRemaining: 36,
		InstallmentAmountUSD:  decimal.RequireFromString("416.67"),
		RemainingBalanceUSD:   decimal.NewFromInt(15000),
	}

	f := newFixture()
	f.conceptRepo.On("GetByID", ctx, concept.ID).Return(concept, nil)
	f.monthRepo.On("GetByYearMonth", ctx, 2026, time.August).Return(nil, domain.ErrNotFound)
	f.monthRepo.On("Create", ctx, mock.AnythingOfType("*domain.Month")).Return(nil)
	f.movementRepo.On("Create", ctx, mock.AnythingOfType("*domain.Movement")).Return(nil)
	f.liabilityRepo.On("GetByConceptID", ctx, concept.ID).Return(liability, nil)
	f.liabilityRepo.On("AddPayment", ctx, mock.AnythingOfType("*domain.LiabilityPayment")).Return(nil)
	f.liabilityRepo.On("UpdateCachedFields", ctx, mock.AnythingOfType("*domain.Liability")).Return(nil)

	posted, err := f.svc.PostMovement(ctx, PostMovementInput{
		Kind:      domain.MovementExpense,
		Amount:    decimal.RequireFromString("416.67"),
		Currency:  domain.CurrencyUSD,
		Date:      movementDate,
		Status:    domain.MovementPaid,
		ConceptID: concept.ID,
	})

	require.NoError(t, err)
	require.NotNil(t, posted.Payment, "an exact installment must settle automatically")
	assert.True(t, posted.Payment.BalanceAfter.Equal(decimal.RequireFromString("14583.33")))
	assert.Equal(t, 35, posted.Payment.InstallmentsRemainingAfter)
	assert.Equal(t, posted.Movement.ID, posted.Payment.SourceMovementID)
}

func TestPostMovement_UnmatchedAmountStandsAlone(t *testing.T) {
	ctx := context.Background()
	concept := expenseConcept("Car Installment")

	liability := &domain.Liability{
		ID:                    uuid.New(),
		AssetID:               uuid.New(),
		ConceptID:             &concept.ID,
		TotalAmountUSD:        decimal.NewFromInt(15000),
		InstallmentsTotal:     36,
		InstallmentsRemaining: 36,
		InstallmentAmountUSD:  decimal.RequireFromString("416.67"),
		RemainingBalanceUSD:   decimal.NewFromInt(15000),
	}

	f := newFixture()
	f.conceptRepo.On("GetByID", ctx, concept.ID).Return(concept, nil)
	f.monthRepo.On("GetByYearMonth", ctx, mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	f.monthRepo.On("Create", ctx, mock.AnythingOfType("*domain.Month")).Return(nil)
	f.movementRepo.On("Create", ctx, mock.AnythingOfType("*domain.Movement")).Return(nil)
	f.liabilityRepo.On("GetByConceptID", ctx, concept.ID).Return(liability, nil)

	// A tyre change charged under the same concept, far outside tolerance
	posted, err := f.svc.PostMovement(ctx, PostMovementInput{
		Kind:      domain.MovementExpense,
		Amount:    decimal.NewFromInt(2000),
		Currency:  domain.CurrencyUSD,
		Date:      time.Now(),
		Status:    domain.MovementPaid,
		ConceptID: concept.ID,
	})

	require.NoError(t, err, "a non-match is not an error")
	assert.Nil(t, posted.Payment)
	f.liabilityRepo.AssertNotCalled(t, "AddPayment", mock.Anything, mock.Anything)
}

func TestPostMovement_KindMismatchWithConceptConflicts(t *testing.T) {
	ctx := context.Background()
	concept := expenseConcept("Rent")

	f := newFixture()
	f.conceptRepo.On("GetByID", ctx, concept.ID).Return(concept, nil)

	_, err := f.svc.PostMovement(ctx, PostMovementInput{
		Kind:      domain.MovementIncome,
		Amount:    decimal.NewFromInt(500),
		Currency:  domain.CurrencyUSD,
		Date:      time.Now(),
		Status:    domain.MovementPaid,
		ConceptID: concept.ID,
	})

	assert.ErrorIs(t, err, domain.ErrConflictingState)
}

func TestSummary_UnknownMonthIsEmptyNotError(t *testing.T) {
	ctx := context.Background()

	f := newFixture()
	f.monthRepo.On("GetByYearMonth", ctx, 2026, time.January).Return(nil, domain.ErrNotFound)

	summary, err := f.svc.Summary(ctx, 2026, time.January)

	require.NoError(t, err)
	assert.True(t, summary.IncomeUSD.IsZero())
	assert.True(t, summary.ExpenseUSD.IsZero())
	assert.Empty(t, summary.Movements)
}

func TestSummary_AggregatesByKind(t *testing.T) {
	ctx := context.Background()
	month := &domain.Month{
		ID:       uuid.New(),
		Year:     2026,
		Month:    time.August,
		Status:   domain.MonthOpen,
		OpenDate: time.Now(),
	}

	f := newFixture()
	f.monthRepo.On("GetByYearMonth", ctx, 2026, time.August).Return(month, nil)
	f.movementRepo.On("ListByMonth", ctx, month.ID).Return([]*domain.Movement{
		{ID: uuid.New(), Kind: domain.MovementIncome, AmountUSD: decimal.NewFromInt(3000), OriginalCurrency: domain.CurrencyUSD, ExchangeRateApplied: decimal.NewFromInt(1), Date: time.Now(), Status: domain.MovementPaid, ConceptID: uuid.New(), MonthID: month.ID},
		{ID: uuid.New(), Kind: domain.MovementExpense, AmountUSD: decimal.NewFromInt(1200), OriginalCurrency: domain.CurrencyUSD, ExchangeRateApplied: decimal.NewFromInt(1), Date: time.Now(), Status: domain.MovementPaid, ConceptID: uuid.New(), MonthID: month.ID},
		nil, // a bad historical row must degrade, not crash
	}, nil)

	summary, err := f.svc.Summary(ctx, 2026, time.August)

	require.NoError(t, err)
	assert.True(t, summary.IncomeUSD.Equal(decimal.NewFromInt(3000)))
	assert.True(t, summary.ExpenseUSD.Equal(decimal.NewFromInt(1200)))
	assert.True(t, summary.NetUSD.Equal(decimal.NewFromInt(1800)))
	assert.Len(t, summary.Movements, 2)
}

func TestCreateConcept_DuplicateNamePerKindConflicts(t *testing.T) {
	ctx := context.Background()
	existing := expenseConcept("Rent")

	f := newFixture()
	f.conceptRepo.On("GetByNameAndKind", ctx, "Rent", domain.MovementExpense).Return(existing, nil)

	_, err := f.svc.CreateConcept(ctx, "Rent", domain.MovementExpense, domain.NatureFixed)

	assert.ErrorIs(t, err, domain.ErrConflictingState)
	f.conceptRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateConcept_SameNameDifferentKindAllowed(t *testing.T) {
	ctx := context.Background()

	f := newFixture()
	f.conceptRepo.On("GetByNameAndKind", ctx, "Alquiler", domain.MovementIncome).Return(nil, domain.ErrNotFound)
	f.conceptRepo.On("Create", ctx, mock.AnythingOfType("*domain.Concept")).Return(nil)

	concept, err := f.svc.CreateConcept(ctx, "Alquiler", domain.MovementIncome, domain.NatureFixed)

	require.NoError(t, err)
	assert.Equal(t, domain.MovementIncome, concept.Kind)
	f.conceptRepo.AssertExpectations(t)
}
