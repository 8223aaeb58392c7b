package numfmt

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

func TestNormalize_PlainConvention(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple decimal", "1234.56", "1234.56", false},
		{"grouped thousands", "1,234.56", "1234.56", false},
		{"large grouped", "12,345,678.90", "12345678.9", false},
		{"integer", "1234", "1234", false},
		{"negative grouped", "-1,234.56", "-1234.56", false},
		{"comma decimal is rejected", "123,45", "", true},
		{"mixed argentine shape is rejected", "1.234,56", "", true},
		{"bad grouping is rejected", "12,34.56", "", true},
		{"empty string is rejected", "", "", true},
		{"garbage is rejected", "12a34", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.input, Plain)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidNumberFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestNormalize_ArgentineConvention(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"grouped thousands with comma decimal", "1.234,56", "1234.56", false},
		{"ungrouped comma decimal", "1234,56", "1234.56", false},
		{"dot thousands without decimals", "1.234", "1234", false},
		{"integer", "1234", "1234", false},
		{"negative", "-1.234,56", "-1234.56", false},
		{"dot decimal is rejected", "1234.56", "", true},
		{"short dot group is rejected", "1.23", "", true},
		{"mixed plain shape is rejected", "1,234.56", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.input, Argentine)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidNumberFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestNormalize_NumericInputs(t *testing.T) {
	got, err := Normalize(float64(1234.5), Plain)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromFloat(1234.5)))

	got, err = Normalize(42, Argentine)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(42)))

	// NaN must be rejected, never coerced to zero
	_, err = Normalize(math.NaN(), Plain)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidNumberFormat)

	_, err = Normalize(math.Inf(1), Plain)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidNumberFormat)

	// Unsupported types are rejected
	_, err = Normalize([]string{"1"}, Plain)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidNumberFormat)

	_, err = Normalize(nil, Plain)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidNumberFormat)
}

func TestNormalizeInteger(t *testing.T) {
	n, err := NormalizeInteger("36", Plain)
	require.NoError(t, err)
	assert.Equal(t, 36, n)

	n, err = NormalizeInteger("1,200", Plain)
	require.NoError(t, err)
	assert.Equal(t, 1200, n)

	_, err = NormalizeInteger("36.5", Plain)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotAnInteger)

	// Format errors take precedence over integer checks
	_, err = NormalizeInteger("36,5", Plain)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidNumberFormat)
}

func TestFormat_RoundTrip(t *testing.T) {
	values := []string{"0", "5", "-5", "999", "1000", "1234.56", "-1234.56", "12345678.9", "0.01"}

	for _, v := range values {
		d := decimal.RequireFromString(v)

		for _, conv := range []Convention{Plain, Argentine} {
			formatted := Format(d, conv)
			back, err := Normalize(formatted, conv)
			require.NoError(t, err, "Format(%s, %s) produced unparsable %q", v, conv, formatted)
			assert.True(t, back.Equal(d), "round-trip of %s via %q changed the value to %s", v, formatted, back)
		}
	}
}

func TestFormat_Grouping(t *testing.T) {
	d := decimal.RequireFromString("1234567.89")
	assert.Equal(t, "1,234,567.89", Format(d, Plain))
	assert.Equal(t, "1.234.567,89", Format(d, Argentine))

	assert.Equal(t, "-1,234", Format(decimal.NewFromInt(-1234), Plain))
	assert.Equal(t, "123", Format(decimal.NewFromInt(123), Argentine))
}
