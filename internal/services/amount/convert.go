package amount

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/swapdesk/internal/domain"
)

var (
	// ErrNegativeAmount amounts are non-negative only.
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrInvalidRate rate must be a positive number of quote units per base unit.
	ErrInvalidRate = errors.New("exchange rate must be positive")
)

// ToQuote converts a base amount into the quote currency, rounded half-up
// to the quote precision.
func ToQuote(base, rate decimal.Decimal) (string, error) {
	if err := check(base, rate); err != nil {
		return "", err
	}
	return base.Mul(rate).StringFixed(domain.QuoteDecimals), nil
}

// ToBase converts a quote amount into the base currency, rounded half-up
// to the base precision.
func ToBase(quote, rate decimal.Decimal) (string, error) {
	if err := check(quote, rate); err != nil {
		return "", err
	}
	return quote.DivRound(rate, domain.BaseDecimals).StringFixed(domain.BaseDecimals), nil
}

// Convert converts value expressed in from into the other currency of the pair.
func Convert(value decimal.Decimal, from domain.Currency, rate decimal.Decimal) (string, error) {
	if from == domain.Quote {
		return ToBase(value, rate)
	}
	return ToQuote(value, rate)
}

// BaseEquivalent returns the unrounded base amount of value expressed in from.
func BaseEquivalent(value decimal.Decimal, from domain.Currency, rate decimal.Decimal) (decimal.Decimal, error) {
	if from == domain.Base {
		return value, nil
	}
	if !rate.IsPositive() {
		return decimal.Zero, ErrInvalidRate
	}
	return value.Div(rate), nil
}

// Format renders an amount with the fixed precision of the currency.
func Format(value decimal.Decimal, c domain.Currency) (string, error) {
	if value.IsNegative() {
		return "", ErrNegativeAmount
	}
	return value.StringFixed(c.Decimals()), nil
}

func check(value, rate decimal.Decimal) error {
	if value.IsNegative() {
		return errors.Wrapf(ErrNegativeAmount, "got %s", value.String())
	}
	if !rate.IsPositive() {
		return errors.Wrapf(ErrInvalidRate, "got %s", rate.String())
	}
	return nil
}
