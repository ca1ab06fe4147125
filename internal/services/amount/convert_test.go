package amount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/swapdesk/internal/domain"
)

func TestToQuote(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		rate     string
		expected string
	}{
		{name: "one unit", base: "1", rate: "50000", expected: "50000.00"},
		{name: "fraction", base: "0.5", rate: "50000", expected: "25000.00"},
		{name: "rounds half up", base: "0.000001", rate: "5005", expected: "0.01"},
		{name: "rounds down below half", base: "0.000001", rate: "4000", expected: "0.00"},
		{name: "zero", base: "0", rate: "50000", expected: "0.00"},
		{name: "fractional rate", base: "2", rate: "123.456", expected: "246.91"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToQuote(decimal.RequireFromString(tt.base), decimal.RequireFromString(tt.rate))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestToBase(t *testing.T) {
	tests := []struct {
		name     string
		quote    string
		rate     string
		expected string
	}{
		{name: "one unit", quote: "50000", rate: "50000", expected: "1.000000"},
		{name: "small amount", quote: "0.01", rate: "50000", expected: "0.000000"},
		{name: "rounds half up", quote: "1", rate: "3", expected: "0.333333"},
		{name: "rounds up", quote: "2", rate: "3", expected: "0.666667"},
		{name: "large amount", quote: "6000000", rate: "50000", expected: "120.000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToBase(decimal.RequireFromString(tt.quote), decimal.RequireFromString(tt.rate))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestConvert_RejectsInvalidInput(t *testing.T) {
	rate := decimal.NewFromInt(50000)

	_, err := ToQuote(decimal.NewFromInt(-1), rate)
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = ToBase(decimal.NewFromInt(-1), rate)
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = ToQuote(decimal.NewFromInt(1), decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidRate)

	_, err = ToBase(decimal.NewFromInt(1), decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestConvert_RoundTrip(t *testing.T) {
	rates := []string{"50000", "43210.77", "1.5", "98765.4321"}
	bases := []string{"1", "0.123456", "0.5", "99.999999", "0.000001"}

	for _, r := range rates {
		rate := decimal.RequireFromString(r)
		// one cent in the quote currency expressed in base units, plus half a base unit step
		tolerance := decimal.RequireFromString("0.01").Div(rate).Add(decimal.RequireFromString("0.0000005"))

		for _, b := range bases {
			base := decimal.RequireFromString(b)

			quote, err := ToQuote(base, rate)
			require.NoError(t, err)
			back, err := ToBase(decimal.RequireFromString(quote), rate)
			require.NoError(t, err)

			diff := decimal.RequireFromString(back).Sub(base).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance), "rate %s base %s back %s", r, b, back)
		}
	}
}

func TestConvert_Direction(t *testing.T) {
	rate := decimal.NewFromInt(50000)

	got, err := Convert(decimal.NewFromInt(1), domain.Base, rate)
	require.NoError(t, err)
	assert.Equal(t, "50000.00", got)

	got, err = Convert(decimal.NewFromInt(25000), domain.Quote, rate)
	require.NoError(t, err)
	assert.Equal(t, "0.500000", got)
}

func TestBaseEquivalent(t *testing.T) {
	rate := decimal.NewFromInt(50000)

	got, err := BaseEquivalent(decimal.RequireFromString("0.01"), domain.Quote, rate)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("0.0000002")))

	got, err = BaseEquivalent(decimal.NewFromInt(3), domain.Base, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(3)))

	_, err = BaseEquivalent(decimal.NewFromInt(3), domain.Quote, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestFormat(t *testing.T) {
	got, err := Format(decimal.RequireFromString("1.23456789"), domain.Base)
	require.NoError(t, err)
	assert.Equal(t, "1.234568", got)

	got, err = Format(decimal.RequireFromString("999999.999"), domain.Quote)
	require.NoError(t, err)
	assert.Equal(t, "1000000.00", got)

	_, err = Format(decimal.RequireFromString("-1"), domain.Quote)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}
