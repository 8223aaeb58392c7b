package asset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// AssetWithValue is an asset resolved with its current value and liability,
// as the dashboard lists it
type AssetWithValue struct {
	Asset *domain.Asset
	// LatestValuation is nil when no valuation has been recorded yet
	LatestValuation *domain.Valuation
	// Liability is nil when the asset is unfinanced
	Liability *domain.Liability
}

// AssetService handles the Asset/Valuation/Liability lifecycle
type AssetService struct {
	AssetRepo     domain.AssetRepository
	LiabilityRepo domain.LiabilityRepository

	// valuationCache holds each asset's latest valuation so listing the
	// portfolio does not rescan valuation history; invalidated on insert
	valuationCache *gocache.Cache
}

// NewAssetService creates a new AssetService instance
func NewAssetService(assetRepo domain.AssetRepository, liabilityRepo domain.LiabilityRepository) *AssetService {
	return &AssetService{
		AssetRepo:      assetRepo,
		LiabilityRepo:  liabilityRepo,
		valuationCache: gocache.New(gocache.NoExpiration, 0),
	}
}

// CreateAsset validates and persists a new asset
func (s *AssetService) CreateAsset(ctx context.Context, name string, kind domain.AssetKind, fiscal domain.FiscalStatus) (*domain.Asset, error) {
	asset := &domain.Asset{
		ID:           uuid.New(),
		Name:         name,
		Kind:         kind,
		FiscalStatus: fiscal,
		CreatedAt:    time.Now(),
	}

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	if err := s.AssetRepo.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	return asset, nil
}

// UpdateAsset renames or reclassifies an existing asset
func (s *AssetService) UpdateAsset(ctx context.Context, id uuid.UUID, name string, kind domain.AssetKind, fiscal domain.FiscalStatus) (*domain.Asset, error) {
	asset, err := s.AssetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	asset.Name = name
	asset.Kind = kind
	asset.FiscalStatus = fiscal

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	if err := s.AssetRepo.Update(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}

	return asset, nil
}

// DeleteAsset removes an asset and cascades to its valuations, liability and
// liability payments
func (s *AssetService) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	if _, err := s.AssetRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.AssetRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	s.valuationCache.Delete(id.String())
	return nil
}

// AddValuation appends an immutable point-in-time value assertion for an
// asset and invalidates the cached latest value
func (s *AssetService) AddValuation(ctx context.Context, assetID uuid.UUID, valueUSD decimal.Decimal, valuationDate time.Time) (*domain.Valuation, error) {
	if _, err := s.AssetRepo.GetByID(ctx, assetID); err != nil {
		return nil, err
	}

	valuation := &domain.Valuation{
		ID:       uuid.New(),
		AssetID:  assetID,
		Date:     valuationDate,
		ValueUSD: valueUSD,
	}

	if err := valuation.Validate(); err != nil {
		return nil, err
	}

	if err := s.AssetRepo.AddValuation(ctx, valuation); err != nil {
		return nil, fmt.Errorf("failed to add valuation: %w", err)
	}

	s.valuationCache.Delete(assetID.String())
	return valuation, nil
}

// LatestValuation resolves an asset's current value, serving repeats from the
// cache. A nil result with nil error means no valuation exists yet.
func (s *AssetService) LatestValuation(ctx context.Context, assetID uuid.UUID) (*domain.Valuation, error) {
	if cached, found := s.valuationCache.Get(assetID.String()); found {
		return cached.(*domain.Valuation), nil
	}

	latest, err := s.AssetRepo.GetLatestValuation(ctx, assetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest valuation: %w", err)
	}

	s.valuationCache.Set(assetID.String(), latest, gocache.NoExpiration)
	return latest, nil
}

// AttachLiability creates the financing record for an asset. An asset has at
// most one liability; a second attachment is a conflict.
func (s *AssetService) AttachLiability(ctx context.Context, l *domain.Liability) error {
	if _, err := s.AssetRepo.GetByID(ctx, l.AssetID); err != nil {
		return err
	}

	existing, err := s.LiabilityRepo.GetByAssetID(ctx, l.AssetID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to check existing liability: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("asset %s already has a liability: %w", l.AssetID, domain.ErrConflictingState)
	}

	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	if err := l.Validate(); err != nil {
		return err
	}

	if err := s.LiabilityRepo.Create(ctx, l); err != nil {
		return fmt.Errorf("failed to create liability: %w", err)
	}

	return nil
}

// GetLiabilityFor looks up the liability attached to an asset. A nil result
// with nil error means the asset is unfinanced.
func (s *AssetService) GetLiabilityFor(ctx context.Context, assetID uuid.UUID) (*domain.Liability, error) {
	liability, err := s.LiabilityRepo.GetByAssetID(ctx, assetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get liability: %w", err)
	}
	return liability, nil
}

// ListAssets returns every asset with its current value and liability resolved
func (s *AssetService) ListAssets(ctx context.Context) ([]*AssetWithValue, error) {
	assets, err := s.AssetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	result := make([]*AssetWithValue, 0, len(assets))
	for _, a := range assets {
		latest, err := s.LatestValuation(ctx, a.ID)
		if err != nil {
			return nil, err
		}

		liability, err := s.GetLiabilityFor(ctx, a.ID)
		if err != nil {
			return nil, err
		}

		result = append(result, &AssetWithValue{
			Asset:           a,
			LatestValuation: latest,
			Liability:       liability,
		})
	}

	return result, nil
}
