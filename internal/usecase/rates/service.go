package rates

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// lastUsedKey is the go-cache key for the sticky per-user rate override
const lastUsedKey = "last_used_rate"

// RateService handles time-indexed ARS/USD conversion.
// The historical table is a read-only input; the "last used" rate is an
// explicitly named piece of state independent of the table's recency.
type RateService struct {
	RateRepo    domain.ExchangeRateRepository
	DefaultRate decimal.Decimal
	state       *gocache.Cache
}

// NewRateService creates a new RateService instance.
// defaultRate is the fallback used when the historical table is empty, so
// currency conversion never blocks a read.
func NewRateService(rateRepo domain.ExchangeRateRepository, defaultRate decimal.Decimal) *RateService {
	return &RateService{
		RateRepo:    rateRepo,
		DefaultRate: defaultRate,
		state:       gocache.New(gocache.NoExpiration, 0),
	}
}

// RateAt returns the most recent known rate valid on or before the target date.
// If the target predates every entry, the oldest known rate is returned; if
// the table is empty, the configured default rate is returned.
func (s *RateService) RateAt(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	table, err := s.RateRepo.ListDescending(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load exchange rate table: %w", err)
	}

	if len(table) == 0 {
		return s.DefaultRate, nil
	}

	// Table is sorted descending by date: first entry at or before the target wins
	for _, entry := range table {
		if !entry.Date.After(date) {
			return entry.Rate, nil
		}
	}

	// Target predates all entries: fall back to the oldest known rate
	return table[len(table)-1].Rate, nil
}

// ToUSD converts an ARS amount using the rate valid at the given date
func (s *RateService) ToUSD(ctx context.Context, arsAmount decimal.Decimal, date time.Time) (decimal.Decimal, error) {
	rate, err := s.RateAt(ctx, date)
	if err != nil {
		return decimal.Zero, err
	}

	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("exchange rate at %s is not positive", date.Format("2006-01-02"))
	}

	return arsAmount.Div(rate), nil
}

// ToARS converts a USD amount using the rate valid at the given date
func (s *RateService) ToARS(ctx context.Context, usdAmount decimal.Decimal, date time.Time) (decimal.Decimal, error) {
	rate, err := s.RateAt(ctx, date)
	if err != nil {
		return decimal.Zero, err
	}

	return usdAmount.Mul(rate), nil
}

// SuggestedRate returns the most recent entry of the table, or the default
// rate when the table is empty. The UI uses it to prefill new entries.
func (s *RateService) SuggestedRate(ctx context.Context) (decimal.Decimal, error) {
	table, err := s.RateRepo.ListDescending(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load exchange rate table: %w", err)
	}

	if len(table) == 0 {
		return s.DefaultRate, nil
	}

	return table[0].Rate, nil
}

// LastUsedRate returns the sticky rate override from the last manual entry,
// or false when none has been recorded yet
func (s *RateService) LastUsedRate() (decimal.Decimal, bool) {
	v, found := s.state.Get(lastUsedKey)
	if !found {
		return decimal.Zero, false
	}
	return v.(decimal.Decimal), true
}

// SetLastUsedRate records the rate the user last applied manually
func (s *RateService) SetLastUsedRate(rate decimal.Decimal) {
	s.state.Set(lastUsedKey, rate, gocache.NoExpiration)
}

// AddRate appends a historical quote to the table
func (s *RateService) AddRate(ctx context.Context, date time.Time, rate decimal.Decimal) error {
	entry := &domain.ExchangeRate{
		Date: date,
		Rate: rate,
	}

	if err := entry.Validate(); err != nil {
		return err
	}

	if err := s.RateRepo.Add(ctx, entry); err != nil {
		return fmt.Errorf("failed to add exchange rate: %w", err)
	}

	s.SetLastUsedRate(rate)
	return nil
}
