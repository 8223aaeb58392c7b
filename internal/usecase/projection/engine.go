package projection

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// OpenEndedHorizonYears bounds the active (no end date) segment so projections
// stay finite. It doubles as the cap on requested scenario horizons.
const OpenEndedHorizonYears = 30

var hundred = decimal.NewFromInt(100)

// Point is one year of a projected capital series
type Point struct {
	Year int
	// Nominal is the projected capital before inflation adjustment, rounded
	// to whole units
	Nominal decimal.Decimal
	// Real is the nominal capital deflated by (1+inflation)^year
	Real decimal.Decimal
	// VariationPct is the percentage change against the previous year's
	// nominal capital; zero for the base year
	VariationPct decimal.Decimal
}

// ProjectScenario compounds an opening capital at a single fixed annual rate
// over the whole horizon. Rates are percentages (8 means 8% per year).
// horizonYears == 0 returns only the base-year entry. A zero or negative rate
// is legal: capital can shrink.
func ProjectScenario(opening, annualRatePct, annualInflationPct decimal.Decimal, horizonYears int) []Point {
	if horizonYears < 0 {
		horizonYears = 0
	}

	growth := decimal.NewFromInt(1).Add(annualRatePct.Div(hundred))
	inflation := decimal.NewFromInt(1).Add(annualInflationPct.Div(hundred))

	series := make([]Point, 0, horizonYears+1)
	base := opening.Round(0)
	series = append(series, Point{Year: 0, Nominal: base, Real: base, VariationPct: decimal.Zero})

	nominal := base
	for year := 1; year <= horizonYears; year++ {
		previous := nominal
		nominal = previous.Mul(growth).Round(0)

		series = append(series, Point{
			Year:         year,
			Nominal:      nominal,
			Real:         deflate(nominal, inflation, year),
			VariationPct: variation(previous, nominal),
		})
	}

	return series
}

// ProjectTramos walks a fund's segments in chronological order and produces a
// continuous year-indexed series. The first segment's opening capital is
// authoritative; later segments' stated opening capital is informational only,
// since each year starts from the previous year's actual computed capital.
// That keeps the series continuous across strategy changes and the variation
// at a segment boundary honest.
//
// Segment boundaries are whole years relative to the fund start date. The
// open-ended segment extends to a fixed 30-year horizon.
func ProjectTramos(fundStart time.Time, tramos []*domain.Tramo) ([]Point, error) {
	if len(tramos) == 0 {
		return nil, errors.New("projection requires at least one segment")
	}

	spans, err := segmentSpans(fundStart, tramos)
	if err != nil {
		return nil, err
	}

	base := tramos[0].OpeningCapitalUSD.Round(0)
	series := []Point{{Year: 0, Nominal: base, Real: base, VariationPct: decimal.Zero}}

	capital := base
	for i, span := range spans {
		t := tramos[i]
		growth := decimal.NewFromInt(1).Add(t.ExpectedRateAnnualPct.Div(hundred))
		inflation := decimal.NewFromInt(1).Add(t.AssumedInflationAnnualPct.Div(hundred))
		yearlyContribution := t.MonthlyContributionUSD.Mul(decimal.NewFromInt(12))

		for year := span.firstYear; year <= span.lastYear; year++ {
			previous := capital
			capital = previous.Mul(growth).Add(yearlyContribution).Round(0)

			series = append(series, Point{
				Year:         year,
				Nominal:      capital,
				Real:         deflate(capital, inflation, year),
				VariationPct: variation(previous, capital),
			})
		}
	}

	return series, nil
}

// span is a segment's year range, inclusive at both ends
type span struct {
	firstYear int
	lastYear  int
}

// segmentSpans translates segment dates into contiguous whole-year ranges
// relative to the fund start, validating chronology along the way
func segmentSpans(fundStart time.Time, tramos []*domain.Tramo) ([]span, error) {
	spans := make([]span, 0, len(tramos))
	nextYear := 1

	for i, t := range tramos {
		if t.StartDate.Before(fundStart) {
			return nil, fmt.Errorf("segment %d starts before the fund start date", i+1)
		}
		if i < len(tramos)-1 && t.EndDate == nil {
			return nil, errors.New("only the last segment may be open-ended")
		}

		lastYear := OpenEndedHorizonYears
		if t.EndDate != nil {
			lastYear = wholeYears(fundStart, *t.EndDate)
		}

		if lastYear < nextYear {
			return nil, fmt.Errorf("segment %d ends before the previous one", i+1)
		}

		spans = append(spans, span{firstYear: nextYear, lastYear: lastYear})
		nextYear = lastYear + 1
	}

	return spans, nil
}

// wholeYears counts complete years elapsed between two dates
func wholeYears(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}

	years := to.Year() - from.Year()
	anniversary := from.AddDate(years, 0, 0)
	if anniversary.After(to) {
		years--
	}

	if years < 0 {
		return 0
	}
	return years
}

// deflate converts a nominal value to its real counterpart. Inflation always
// compounds: (1+inflation)^year, never year*inflation. A deflator at or below
// zero (annual inflation of -100% or worse) has no purchasing-power meaning,
// so the real value is reported as zero instead of dividing by it.
func deflate(nominal, inflation decimal.Decimal, year int) decimal.Decimal {
	if inflation.Sign() <= 0 {
		return decimal.Zero
	}
	return nominal.Div(inflation.Pow(decimal.NewFromInt(int64(year)))).Round(0)
}

// variation is the percentage change between two consecutive nominal values
func variation(previous, current decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}
