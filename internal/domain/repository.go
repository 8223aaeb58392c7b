package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AssetRepository defines the interface for asset persistence operations
type AssetRepository interface {
	// Create creates a new asset
	Create(ctx context.Context, asset *Asset) error

	// GetByID retrieves an asset by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Asset, error)

	// List retrieves all assets
	List(ctx context.Context) ([]*Asset, error)

	// Update persists changes to an asset's mutable fields
	Update(ctx context.Context, asset *Asset) error

	// Delete removes an asset and cascades to its valuations, liability and
	// liability payments
	Delete(ctx context.Context, id uuid.UUID) error

	// AddValuation appends an immutable valuation record
	AddValuation(ctx context.Context, v *Valuation) error

	// ListValuations retrieves an asset's valuations ordered ascending by date
	ListValuations(ctx context.Context, assetID uuid.UUID) ([]*Valuation, error)

	// GetLatestValuation retrieves the most recent valuation for an asset
	GetLatestValuation(ctx context.Context, assetID uuid.UUID) (*Valuation, error)
}

// LiabilityRepository defines the interface for liability persistence operations
type LiabilityRepository interface {
	// Create creates a new liability
	Create(ctx context.Context, l *Liability) error

	// GetByID retrieves a liability by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Liability, error)

	// GetByAssetID retrieves the liability attached to an asset
	GetByAssetID(ctx context.Context, assetID uuid.UUID) (*Liability, error)

	// GetByConceptID retrieves the liability linked to a concept for automatic
	// payment matching
	GetByConceptID(ctx context.Context, conceptID uuid.UUID) (*Liability, error)

	// UpdateCachedFields persists the liability's remaining balance and
	// remaining installment count after a payment is applied
	UpdateCachedFields(ctx context.Context, l *Liability) error

	// AddPayment appends an immutable payment audit record
	AddPayment(ctx context.Context, p *LiabilityPayment) error

	// ListPayments retrieves a liability's payments ordered ascending by date
	ListPayments(ctx context.Context, liabilityID uuid.UUID) ([]*LiabilityPayment, error)
}

// InvestmentRepository defines the interface for investment persistence operations
type InvestmentRepository interface {
	// Create creates a new investment
	Create(ctx context.Context, inv *Investment) error

	// GetByID retrieves an investment by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Investment, error)

	// List retrieves all investments
	List(ctx context.Context) ([]*Investment, error)

	// Update persists changes to an investment's mutable fields
	Update(ctx context.Context, inv *Investment) error

	// Delete removes an investment and cascades to its events
	Delete(ctx context.Context, id uuid.UUID) error

	// AddEvent appends an immutable ledger entry
	AddEvent(ctx context.Context, e *InvestmentEvent) error

	// ListEvents retrieves an investment's events ordered ascending by date
	ListEvents(ctx context.Context, investmentID uuid.UUID) ([]*InvestmentEvent, error)
}

// MovementRepository defines the interface for movement persistence operations
type MovementRepository interface {
	// Create creates a new movement
	Create(ctx context.Context, m *Movement) error

	// ListByMonth retrieves a month's movements ordered ascending by date
	ListByMonth(ctx context.Context, monthID uuid.UUID) ([]*Movement, error)
}

// ConceptRepository defines the interface for concept persistence operations
type ConceptRepository interface {
	// Create creates a new concept
	Create(ctx context.Context, c *Concept) error

	// GetByID retrieves a concept by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Concept, error)

	// GetByNameAndKind retrieves a concept by its unique (name, kind) pair
	GetByNameAndKind(ctx context.Context, name string, kind MovementKind) (*Concept, error)

	// List retrieves all concepts
	List(ctx context.Context) ([]*Concept, error)
}

// MonthRepository defines the interface for accounting period persistence operations
type MonthRepository interface {
	// Create creates a new month record
	Create(ctx context.Context, m *Month) error

	// GetByID retrieves a month by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Month, error)

	// GetByYearMonth retrieves the month record for a (year, month) pair
	GetByYearMonth(ctx context.Context, year int, month time.Month) (*Month, error)

	// Update persists lifecycle changes (closing)
	Update(ctx context.Context, m *Month) error
}

// ExchangeRateRepository defines the interface for rate table persistence operations
type ExchangeRateRepository interface {
	// Add appends a historical quote
	Add(ctx context.Context, r *ExchangeRate) error

	// ListDescending retrieves the full rate table sorted descending by date
	ListDescending(ctx context.Context) ([]*ExchangeRate, error)
}

// TramoRepository defines the interface for projection segment persistence operations
type TramoRepository interface {
	// Add appends a projection segment to a fund
	Add(ctx context.Context, t *Tramo) error

	// ListByFund retrieves a fund's segments ordered ascending by start date
	ListByFund(ctx context.Context, fundID uuid.UUID) ([]*Tramo, error)
}
