package networth

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nmorales/patrimonio-backend/internal/domain"
	"github.com/nmorales/patrimonio-backend/internal/usecase/asset"
	"github.com/nmorales/patrimonio-backend/internal/usecase/ledger"
)

// AssetPosition is one asset's contribution to net worth:
// latest value net of any financing balance
type AssetPosition struct {
	Asset *domain.Asset
	// NetUSD = latest valuation - remaining liability balance.
	// Negative equity is legal and reported as such, never clamped to zero.
	NetUSD decimal.Decimal
}

// InvestmentPosition is one investment's derived state
type InvestmentPosition struct {
	Investment *domain.Investment
	State      ledger.InvestmentState
}

// Result is the full patrimonial picture
type Result struct {
	TotalUSD       decimal.Decimal
	AssetTotalUSD  decimal.Decimal
	InvestTotalUSD decimal.Decimal
	Assets         []AssetPosition
	Investments    []InvestmentPosition
}

// NetWorthService combines assets (net of liabilities) and investment capital
// into a single patrimonial figure
type NetWorthService struct {
	AssetService   *asset.AssetService
	InvestmentRepo domain.InvestmentRepository
}

// NewNetWorthService creates a new NetWorthService instance
func NewNetWorthService(assetService *asset.AssetService, investmentRepo domain.InvestmentRepository) *NetWorthService {
	return &NetWorthService{
		AssetService:   assetService,
		InvestmentRepo: investmentRepo,
	}
}

// NetWorth computes the total patrimony across every asset and investment
func (s *NetWorthService) NetWorth(ctx context.Context) (*Result, error) {
	return s.compute(ctx, false)
}

// NetWorthFiscal is the same computation restricted to declared records: a
// read-only reinterpretation of the existing data, nothing is recomputed
// differently
func (s *NetWorthService) NetWorthFiscal(ctx context.Context) (*Result, error) {
	return s.compute(ctx, true)
}

func (s *NetWorthService) compute(ctx context.Context, declaredOnly bool) (*Result, error) {
	assets, err := s.AssetService.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve asset positions: %w", err)
	}

	result := &Result{
		TotalUSD:       decimal.Zero,
		AssetTotalUSD:  decimal.Zero,
		InvestTotalUSD: decimal.Zero,
	}

	for _, a := range assets {
		if declaredOnly && a.Asset.FiscalStatus != domain.FiscalDeclared {
			continue
		}
		position := AssetPosition{Asset: a.Asset, NetUSD: assetNet(a)}
		result.Assets = append(result.Assets, position)
		result.AssetTotalUSD = result.AssetTotalUSD.Add(position.NetUSD)
	}

	investments, err := s.InvestmentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}

	for _, inv := range investments {
		if declaredOnly && inv.FiscalStatus != domain.FiscalDeclared {
			continue
		}

		events, err := s.InvestmentRepo.ListEvents(ctx, inv.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list events for investment %s: %w", inv.ID, err)
		}

		state := ledger.DeriveState(events)
		result.Investments = append(result.Investments, InvestmentPosition{Investment: inv, State: state})
		// Result and ROI are informational; only capital counts toward net worth
		result.InvestTotalUSD = result.InvestTotalUSD.Add(state.Capital)
	}

	result.TotalUSD = result.AssetTotalUSD.Add(result.InvestTotalUSD)
	return result, nil
}

// assetNet computes one asset's net contribution, guarding every step so a
// single malformed record cannot corrupt the whole total. An asset with no
// valuation contributes exactly zero.
func assetNet(a *asset.AssetWithValue) decimal.Decimal {
	if a == nil || a.LatestValuation == nil {
		return decimal.Zero
	}

	net := a.LatestValuation.ValueUSD
	if a.Liability != nil {
		net = net.Sub(a.Liability.RemainingBalanceUSD)
	}
	return net
}
