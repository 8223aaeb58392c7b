package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// InvestmentState is the derived position of an investment: a pure fold over
// its ordered event stream. It is never stored, so the displayed capital can
// never drift from its audit trail.
type InvestmentState struct {
	Capital       decimal.Decimal
	Result        decimal.Decimal
	ROINominalPct decimal.Decimal
	// ROIRealPct requires an inflation index that is outside this core.
	// It is reported as zero: an explicit "unknown", never silently
	// defaulted to the nominal figure.
	ROIRealPct decimal.Decimal
}

// DeriveState reduces an investment's ordered event list into capital, result
// and ROI. Events must arrive in ascending date order (the repository's
// guarantee); malformed entries are skipped so one bad historical record
// cannot poison the aggregate.
//
//	contribution: capital += amount; result += amount
//	withdrawal:   capital -= amount; result -= amount
//	adjustment:   result += amount (capital untouched)
func DeriveState(events []*domain.InvestmentEvent) InvestmentState {
	capital := decimal.Zero
	result := decimal.Zero

	for _, e := range events {
		if e == nil {
			continue
		}

		switch e.Kind {
		case domain.EventContribution:
			capital = capital.Add(e.AmountUSD)
			result = result.Add(e.AmountUSD)
		case domain.EventWithdrawal:
			capital = capital.Sub(e.AmountUSD)
			result = result.Sub(e.AmountUSD)
		case domain.EventAdjustment:
			result = result.Add(e.AmountUSD)
		default:
			// Unknown kinds are ignored on the read side
		}
	}

	roiNominal := decimal.Zero
	if capital.GreaterThan(decimal.Zero) {
		roiNominal = result.Div(capital).Mul(decimal.NewFromInt(100))
	}

	return InvestmentState{
		Capital:       capital,
		Result:        result,
		ROINominalPct: roiNominal,
		ROIRealPct:    decimal.Zero,
	}
}
