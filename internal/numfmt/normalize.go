package numfmt

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// Convention selects one of the two mutually exclusive numeric string formats
// the API accepts. Callers pick one explicitly per field; the parser never
// guesses between them.
type Convention int

const (
	// Plain is dot-decimal with optional comma-thousands ("1,234.56")
	Plain Convention = iota
	// Argentine is comma-decimal with optional dot-thousands ("1.234,56")
	Argentine
)

// String returns the convention name for error messages
func (c Convention) String() string {
	if c == Argentine {
		return "argentine"
	}
	return "plain"
}

// Valid shapes per convention. Grouped forms require every thousands group to
// be exactly three digits, so "123,45" can never be misread as 123.45 under
// the plain convention (or accepted at all).
var (
	plainUngrouped = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	plainGrouped   = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

	argentineUngrouped = regexp.MustCompile(`^-?\d+(,\d+)?$`)
	argentineGrouped   = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+(,\d+)?$`)
)

// Normalize parses a user/API-supplied numeric value into a canonical decimal.
// It accepts numbers (float64, int, int64, json.Number, decimal.Decimal) and
// strings in the given convention. Anything else, NaN/Inf, or an ambiguous
// string fails with domain.ErrInvalidNumberFormat: a financial amount must
// never silently misparse "1.234" as 1.234 when 1234 was meant.
func Normalize(input any, conv Convention) (decimal.Decimal, error) {
	switch v := input.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, fmt.Errorf("%w: non-finite number", domain.ErrInvalidNumberFormat)
		}
		return decimal.NewFromFloat(v), nil
	case float32:
		return Normalize(float64(v), conv)
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case decimal.Decimal:
		return v, nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidNumberFormat, v.String())
		}
		return d, nil
	case string:
		return normalizeString(v, conv)
	default:
		return decimal.Zero, fmt.Errorf("%w: input must be a number or string, got %T", domain.ErrInvalidNumberFormat, input)
	}
}

// NormalizeInteger parses an integer-only field (e.g. installment counts).
// It fails with domain.ErrNotAnInteger when the normalized value has a
// fractional part.
func NormalizeInteger(input any, conv Convention) (int, error) {
	d, err := Normalize(input, conv)
	if err != nil {
		return 0, err
	}

	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: %s has a fractional part", domain.ErrNotAnInteger, d.String())
	}

	return int(d.IntPart()), nil
}

// normalizeString validates the string against the convention's accepted
// shapes, then strips separators down to a canonical dot-decimal form.
func normalizeString(s string, conv Convention) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("%w: empty string", domain.ErrInvalidNumberFormat)
	}

	var canonical string
	switch conv {
	case Argentine:
		switch {
		case argentineGrouped.MatchString(trimmed):
			canonical = strings.ReplaceAll(trimmed, ".", "")
			canonical = strings.ReplaceAll(canonical, ",", ".")
		case argentineUngrouped.MatchString(trimmed):
			canonical = strings.ReplaceAll(trimmed, ",", ".")
		default:
			return decimal.Zero, fmt.Errorf("%w: %q is not a valid %s-convention number", domain.ErrInvalidNumberFormat, s, conv)
		}
	default: // Plain
		switch {
		case plainGrouped.MatchString(trimmed):
			canonical = strings.ReplaceAll(trimmed, ",", "")
		case plainUngrouped.MatchString(trimmed):
			canonical = trimmed
		default:
			return decimal.Zero, fmt.Errorf("%w: %q is not a valid %s-convention number", domain.ErrInvalidNumberFormat, s, conv)
		}
	}

	d, err := decimal.NewFromString(canonical)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidNumberFormat, s)
	}

	return d, nil
}

// Format renders a decimal in the given convention with thousands grouping.
// It is the inverse of Normalize for string inputs.
func Format(d decimal.Decimal, conv Convention) string {
	thousands, decimalMark := ",", "."
	if conv == Argentine {
		thousands, decimalMark = ".", ","
	}

	s := d.String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart, fracPart = s[:idx], s[idx+1:]
	}

	grouped := groupThousands(intPart, thousands)
	if fracPart == "" {
		return sign + grouped
	}
	return sign + grouped + decimalMark + fracPart
}

// groupThousands inserts the separator every three digits from the right
func groupThousands(digits, sep string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var b strings.Builder
	first := n % 3
	if first > 0 {
		b.WriteString(digits[:first])
	}
	for i := first; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
